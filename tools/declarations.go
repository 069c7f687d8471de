package tools

import (
	"primordia/gateway"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
)

// DefaultSystemPrompt guides the model through the deploy workflow.
const DefaultSystemPrompt = `You are an expert agent for the Primordia cloud orchestration service. Your goal is to help users build, deploy, and manage services by using the provided tools.
Follow the recommended asynchronous workflow:
1.  Write source files using 'writeFile'. You must write package.json, index.js, and handler.js for a Node.js service.
2.  Submit a deployment job using 'submitWorkspaceJob'.
3.  After submitting a job, inform the user you will poll for the status. The console handles the polling automatically. Do not call 'getWorkspaceJobStatus' yourself; the console takes care of it.
4.  Interact with the deployed service using 'proxyRequest'.
Always use a 'pls-' prefix for service names to be compatible with the local proxy, for example: 'pls-my-service'.
When creating a Node.js service, remember these key files:
-   package.json: Must include '"type": "module"'.
-   index.js: Must create an HTTP server listening on port 8080.
-   handler.js: Contains the core request handling logic.
Be concise and clear in your responses. When you use a tool, briefly explain what you are doing.`

func stringProp(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description,
	}
}

func enumProp(description string, values []string) map[string]any {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return map[string]any{
		"type":        "string",
		"description": description,
		"enum":        enum,
	}
}

func objectProp(description string) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": description,
	}
}

// Declarations returns the six tools in a stable order.
func Declarations() []mcptypes.Tool {
	return []mcptypes.Tool{
		{
			Name:        KindListFiles.String(),
			Description: "Lists all files in the GCS workspace.",
			InputSchema: mcptypes.ToolInputSchema{
				Type:       "object",
				Properties: map[string]any{},
			},
		},
		{
			Name:        KindReadFile.String(),
			Description: "Reads the content of a specific file from the workspace.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path": stringProp("Workspace-relative path of the file to read."),
				},
				Required: []string{"path"},
			},
		},
		{
			Name:        KindWriteFile.String(),
			Description: "Uploads or overwrites a source file in the GCS workspace. Use the convention 'runs/<service-name>/<filename>' for the path.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"path":    stringProp("Workspace-relative path, e.g., 'runs/my-service/index.js'."),
					"content": stringProp("Full text content to write to the file."),
				},
				Required: []string{"path", "content"},
			},
		},
		{
			Name:        KindSubmitWorkspaceJob.String(),
			Description: "Submits an asynchronous job, such as deploying a service. The 'name' must match the service name used in file paths. Use 'deploy-run-service' for standard Node.js services.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"type": enumProp("The type of job blueprint.", JobTypes),
					"name": stringProp("The name of the service/function."),
				},
				Required: []string{"type", "name"},
			},
		},
		{
			Name:        KindGetWorkspaceJobStatus.String(),
			Description: "Checks the status of a previously submitted asynchronous job.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"jobId": stringProp("The UUID of the job to check."),
				},
				Required: []string{"jobId"},
			},
		},
		{
			Name:        KindProxyRequest.String(),
			Description: "Calls a deployed service through the secure proxy. The URL should be the internal service address, e.g., 'http://primordia-local-service-my-service:8080/path'.",
			InputSchema: mcptypes.ToolInputSchema{
				Type: "object",
				Properties: map[string]any{
					"url":     stringProp("Absolute URL to fetch via the proxy."),
					"method":  enumProp("HTTP method.", gateway.ProxyMethods()),
					"body":    objectProp("JSON body for POST/PUT/PATCH requests."),
					"headers": objectProp("Request headers."),
				},
				Required: []string{"url"},
			},
		},
	}
}
