package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Version   string        `json:"version"`
	Engine    *EngineStatus `json:"engine,omitempty"`
}

// EngineStatus describes the index engine serving the API
type EngineStatus struct {
	Indices         int      `json:"indices"`  // computed columns
	Disabled        []string `json:"disabled"` // disabled family names
	MaxObservations int      `json:"max_observations"`
	Store           bool     `json:"store"` // GET /v1/indices/:star is available
}

// ColumnsResponse lists the index log columns and the index families
type ColumnsResponse struct {
	Columns  []string `json:"columns"`
	Families []string `json:"families"`
	Disabled []string `json:"disabled,omitempty"`
}

// IndexResult is the outcome of one star in a batch
type IndexResult struct {
	Star    string             `json:"star"`
	N       int                `json:"n"`
	Indices map[string]float64 `json:"indices"`
	Status  map[string]string  `json:"status,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// BatchResponse is the response of POST /v1/indices/batch
type BatchResponse struct {
	RunID     string        `json:"run_id"`
	Nmax      int           `json:"nmax"`
	Failed    int           `json:"failed"`
	ElapsedMs int64         `json:"elapsed_ms"`
	Results   []IndexResult `json:"results"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
