package gateway

// HTTP methods accepted by the workspace proxy.
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
	MethodPatch  = "PATCH"
)

var proxyMethods = map[string]bool{
	MethodGet:    true,
	MethodPost:   true,
	MethodPut:    true,
	MethodDelete: true,
	MethodPatch:  true,
}

// ProxyMethods lists the methods ProxyRequest accepts, in declaration order.
func ProxyMethods() []string {
	return []string{MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch}
}

type FileList struct {
	Files []string `json:"files"`
}

type WriteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JobAccepted is the body of a 202 response to a workspace job submission.
type JobAccepted struct {
	JobID   string `json:"jobId"`
	Message string `json:"message"`
}

// GetJobID lets tool results carry the job id without importing this package.
func (j JobAccepted) GetJobID() string {
	return j.JobID
}

// ProxyRequest describes a call to a deployed service through the backend proxy.
type ProxyRequest struct {
	URL     string         `json:"url"`
	Method  string         `json:"method"`
	Body    any            `json:"body,omitempty"`
	Headers map[string]any `json:"headers,omitempty"`
}

type writeFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type submitJobRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}
