package handler

type ScoreResponse struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

type SignalResponse struct {
	CapturedAt   string          `json:"captured_at"`
	UniverseSize int             `json:"universe_size"`
	ArticleCount int             `json:"article_count"`
	FailedGroups int             `json:"failed_groups"`
	Scores       []ScoreResponse `json:"scores"`
}

type CycleResponse struct {
	ID           int64  `json:"id"`
	CapturedAt   string `json:"captured_at"`
	UniverseSize int    `json:"universe_size"`
	ArticleCount int    `json:"article_count"`
	GroupCount   int    `json:"group_count"`
	FailedGroups int    `json:"failed_groups"`
	CacheHits    int    `json:"cache_hits"`
	CacheMisses  int    `json:"cache_misses"`
}

type HistoryResponse struct {
	Cycles []CycleResponse `json:"cycles"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type UniverseResponse struct {
	Symbols    []string `json:"symbols"`
	Size       int      `json:"size"`
	CapturedAt string   `json:"captured_at"`
	Age        string   `json:"age"`
	Fresh      bool     `json:"fresh"`
}
