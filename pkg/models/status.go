package models

// VaultStatus summarizes the managed data directory.
type VaultStatus struct {
	Version       string      `json:"version,omitempty"`
	Uptime        string      `json:"uptime,omitempty"`
	UptimeSeconds int64       `json:"uptime_seconds,omitempty"`
	Sources       int         `json:"sources"`
	Projects      int         `json:"projects"`
	Outputs       int         `json:"outputs"`
	Cache         CacheInfo   `json:"cache"`
	Storage       StorageInfo `json:"storage"`
}

// CacheInfo reports derived asset cache occupancy.
type CacheInfo struct {
	Entries int   `json:"entries"`
	Used    int64 `json:"used"`
	Limit   int64 `json:"limit"`
}

// StorageInfo is the byte size of each managed directory.
type StorageInfo struct {
	Sources    int64 `json:"sources"`
	Outputs    int64 `json:"outputs"`
	Thumbnails int64 `json:"thumbnails"`
	Total      int64 `json:"total"`
}
