// Package httpapi exposes the analysis trigger over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultListenAddress    = "127.0.0.1:8080"
	defaultShutdownDuration = 5 * time.Second
	headerContentType       = "Content-Type"
	headerAllow             = "Allow"
	mimeTypeJSON            = "application/json"

	// RunAnalysisPath is the route that triggers the analysis pipeline.
	RunAnalysisPath = "/api/run-analysis"
	rootPath        = "/"

	successMessage          = "Analysis completed successfully."
	failureMessage          = "Script execution failed."
	methodNotAllowedMessage = "method not allowed"

	errorTriggerFailedMessage = "analysis trigger failed"
	infoTriggerDoneMessage    = "analysis trigger completed"
	infoListeningMessage      = "listening"
)

// Pipeline runs the work behind a trigger.
type Pipeline interface {
	Execute(ctx context.Context) error
}

// PipelineFunc adapts a function into a Pipeline.
type PipelineFunc func(context.Context) error

// Execute invokes the underlying function.
func (pipelineFunc PipelineFunc) Execute(ctx context.Context) error {
	return pipelineFunc(ctx)
}

// DiagnosticError exposes diagnostic text that should be returned to HTTP callers.
type DiagnosticError interface {
	error
	Diagnostic() string
}

// MessageResponse is the JSON envelope returned by the trigger.
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Config defines runtime options for the server.
type Config struct {
	Address         string
	Pipeline        Pipeline
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server accepts trigger requests and serializes pipeline executions.
type Server struct {
	config        Config
	pipelineMutex *sync.Mutex
}

// NewServer creates a new Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Pipeline == nil {
		normalized.Pipeline = PipelineFunc(func(context.Context) error { return nil })
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	return Server{config: normalized, pipelineMutex: &sync.Mutex{}}
}

// Handler returns the HTTP routes served by Run.
func (server Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc(RunAnalysisPath, server.handleRunAnalysis)
	router.HandleFunc(rootPath, server.handleRoot)
	return router
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", serveErr)
		}
		return nil
	})

	server.config.Logger.Info(infoListeningMessage, zap.String("address", actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown HTTP: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleRoot(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Path != rootPath {
		http.NotFound(writer, request)
		return
	}
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writer.WriteHeader(http.StatusOK)
}

func (server Server) handleRunAnalysis(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writer.Header().Set(headerAllow, http.MethodPost)
		server.writeJSON(writer, http.StatusMethodNotAllowed, MessageResponse{Message: methodNotAllowedMessage})
		return
	}

	server.pipelineMutex.Lock()
	executeErr := server.config.Pipeline.Execute(request.Context())
	server.pipelineMutex.Unlock()

	if executeErr != nil {
		server.config.Logger.Error(errorTriggerFailedMessage, zap.Error(executeErr))
		server.writeJSON(writer, http.StatusInternalServerError, MessageResponse{
			Message: failureMessage,
			Error:   diagnosticText(executeErr),
		})
		return
	}
	server.config.Logger.Info(infoTriggerDoneMessage)
	server.writeJSON(writer, http.StatusOK, MessageResponse{Message: successMessage})
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := MessageResponse{Message: failureMessage, Error: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

// diagnosticText prefers the captured diagnostic of the innermost DiagnosticError.
func diagnosticText(err error) string {
	var diagnosticError DiagnosticError
	if errors.As(err, &diagnosticError) {
		return diagnosticError.Diagnostic()
	}
	return err.Error()
}
