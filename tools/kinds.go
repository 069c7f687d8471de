// Package tools declares the backend tools offered to the model and
// dispatches the model's tool calls to the Primordia gateway.
package tools

// Kind is the closed set of tools the console knows about.
type Kind int

const (
	KindUnknown Kind = iota
	KindListFiles
	KindReadFile
	KindWriteFile
	KindSubmitWorkspaceJob
	KindGetWorkspaceJobStatus
	KindProxyRequest
)

var kindNames = map[Kind]string{
	KindListFiles:             "listFiles",
	KindReadFile:              "readFile",
	KindWriteFile:             "writeFile",
	KindSubmitWorkspaceJob:    "submitWorkspaceJob",
	KindGetWorkspaceJobStatus: "getWorkspaceJobStatus",
	KindProxyRequest:          "proxyRequest",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

// String returns the model-facing tool name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a tool name emitted by the model to its Kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// Job blueprint types accepted by submitWorkspaceJob.
var JobTypes = []string{
	"scaffold-function",
	"scaffold-run-service",
	"deploy-function",
	"deploy-run-service",
	"create-and-deploy-function",
	"create-and-deploy-run-service",
}

func isJobType(s string) bool {
	for _, t := range JobTypes {
		if t == s {
			return true
		}
	}
	return false
}
