package tools

import (
	"context"
	"fmt"
	"primordia/config"
	"primordia/gateway"
	"primordia/model"
	"time"
)

// Backend is the subset of the gateway client the dispatcher drives.
type Backend interface {
	ListFiles(ctx context.Context) (gateway.FileList, error)
	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path, content string) (gateway.WriteResult, error)
	SubmitWorkspaceJob(ctx context.Context, jobType, name string) (gateway.JobAccepted, error)
	GetWorkspaceJobStatus(ctx context.Context, jobID string) (model.JobDocument, error)
	ProxyRequest(ctx context.Context, req gateway.ProxyRequest) (any, error)
}

type Options struct {
	// AllowStatusTool lets the model call getWorkspaceJobStatus itself.
	// The orchestrator polls on its behalf, so it is off by default.
	AllowStatusTool bool
}

type handler func(ctx context.Context, args map[string]any) (any, error)

// Dispatcher executes model tool calls against the backend.
type Dispatcher struct {
	backend    Backend
	transcript *model.Transcript
	handlers   map[Kind]handler
}

func NewDispatcher(backend Backend, transcript *model.Transcript, opts Options) *Dispatcher {
	d := &Dispatcher{
		backend:    backend,
		transcript: transcript,
	}
	d.handlers = map[Kind]handler{
		KindListFiles:          d.listFiles,
		KindReadFile:           d.readFile,
		KindWriteFile:          d.writeFile,
		KindSubmitWorkspaceJob: d.submitWorkspaceJob,
		KindProxyRequest:       d.proxyRequest,
	}
	if opts.AllowStatusTool {
		d.handlers[KindGetWorkspaceJobStatus] = d.getWorkspaceJobStatus
	}
	return d
}

// Execute runs calls sequentially and returns one result per call, in order.
// Failures are reported in-band as error results. A transcript entry is
// appended for each call before the next one starts.
func (d *Dispatcher) Execute(ctx context.Context, calls []model.ToolCall) []model.ToolResult {
	results := make([]model.ToolResult, 0, len(calls))

	for _, call := range calls {
		start := time.Now()
		result := d.executeOne(ctx, call)

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Tools] %s (call %s) took %v, error=%v", call.Name, call.ID, time.Since(start), result.IsError)
		}

		results = append(results, result)

		if d.transcript != nil {
			res := result
			d.transcript.Append(model.ChatMessage{
				ID:         model.NewMessageID("tool-result"),
				Role:       model.RoleTool,
				Text:       fmt.Sprintf("Result for %s", call.Name),
				ToolResult: &res,
			})
		}
	}

	return results
}

func (d *Dispatcher) executeOne(ctx context.Context, call model.ToolCall) (result model.ToolResult) {
	result = model.ToolResult{CallID: call.ID, ToolName: call.Name}

	defer func() {
		if r := recover(); r != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Tools] %s panicked: %v", call.Name, r)
			}
			result.Response = model.ErrorResponse(fmt.Sprintf("tool %s failed: %v", call.Name, r))
			result.IsError = true
		}
	}()

	kind, ok := ParseKind(call.Name)
	if !ok {
		result.Response = model.ErrorResponse(fmt.Sprintf("Unknown tool: %s", call.Name))
		result.IsError = true
		return result
	}
	h, registered := d.handlers[kind]
	if !registered {
		result.Response = model.ErrorResponse(fmt.Sprintf("%s is not available: %s", call.Name, disabledReason(kind)))
		result.IsError = true
		return result
	}

	args := call.Args
	if args == nil {
		args = map[string]any{}
	}

	resp, err := h(ctx, args)
	if err != nil {
		result.Response = model.ErrorResponse(err.Error())
		result.IsError = true
		return result
	}

	result.Response = resp
	return result
}

func (d *Dispatcher) listFiles(ctx context.Context, args map[string]any) (any, error) {
	return d.backend.ListFiles(ctx)
}

func (d *Dispatcher) readFile(ctx context.Context, args map[string]any) (any, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return nil, err
	}
	return d.backend.ReadFile(ctx, path)
}

func (d *Dispatcher) writeFile(ctx context.Context, args map[string]any) (any, error) {
	path, err := requireString(args, "path")
	if err != nil {
		return nil, err
	}
	content, err := requireStringAllowEmpty(args, "content")
	if err != nil {
		return nil, err
	}
	return d.backend.WriteFile(ctx, path, content)
}

func (d *Dispatcher) submitWorkspaceJob(ctx context.Context, args map[string]any) (any, error) {
	jobType, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	if !isJobType(jobType) {
		return nil, fmt.Errorf("invalid job type %q", jobType)
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	return d.backend.SubmitWorkspaceJob(ctx, jobType, name)
}

func (d *Dispatcher) getWorkspaceJobStatus(ctx context.Context, args map[string]any) (any, error) {
	jobID, err := requireString(args, "jobId")
	if err != nil {
		return nil, err
	}
	return d.backend.GetWorkspaceJobStatus(ctx, jobID)
}

func (d *Dispatcher) proxyRequest(ctx context.Context, args map[string]any) (any, error) {
	url, err := requireString(args, "url")
	if err != nil {
		return nil, err
	}
	method, err := optionalString(args, "method")
	if err != nil {
		return nil, err
	}
	headers, err := optionalObject(args, "headers")
	if err != nil {
		return nil, err
	}

	return d.backend.ProxyRequest(ctx, gateway.ProxyRequest{
		URL:     url,
		Method:  method,
		Body:    args["body"],
		Headers: headers,
	})
}

func disabledReason(kind Kind) string {
	if kind == KindGetWorkspaceJobStatus {
		return "job status is polled by the console after submitWorkspaceJob"
	}
	return "disabled in this console"
}
