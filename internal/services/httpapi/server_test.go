package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/temirov/treedoc/internal/commands"
	"github.com/temirov/treedoc/internal/config"
	"github.com/temirov/treedoc/internal/services/analysis"
	"github.com/temirov/treedoc/internal/services/filesystem"
	"github.com/temirov/treedoc/internal/services/httpapi"
)

type diagnosticFailure struct{}

func (diagnosticFailure) Error() string      { return "script exited with code 1" }
func (diagnosticFailure) Diagnostic() string { return "ModuleNotFoundError: pandas" }

func decodeResponse(testingInstance *testing.T, recorder *httptest.ResponseRecorder) httpapi.MessageResponse {
	testingInstance.Helper()
	var response httpapi.MessageResponse
	if decodeError := json.Unmarshal(recorder.Body.Bytes(), &response); decodeError != nil {
		testingInstance.Fatalf("decode response %q: %v", recorder.Body.String(), decodeError)
	}
	return response
}

func TestRunAnalysisResponses(testingInstance *testing.T) {
	testCases := []struct {
		name          string
		method        string
		pipelineError error
		expectStatus  int
		expectMessage string
		expectError   string
	}{
		{
			name:          "success",
			method:        http.MethodPost,
			expectStatus:  http.StatusOK,
			expectMessage: "Analysis completed successfully.",
		},
		{
			name:          "script_failure_carries_diagnostic",
			method:        http.MethodPost,
			pipelineError: diagnosticFailure{},
			expectStatus:  http.StatusInternalServerError,
			expectMessage: "Script execution failed.",
			expectError:   "ModuleNotFoundError: pandas",
		},
		{
			name:          "plain_failure_carries_error_text",
			method:        http.MethodPost,
			pipelineError: errors.New("writing report README.md: permission denied"),
			expectStatus:  http.StatusInternalServerError,
			expectMessage: "Script execution failed.",
			expectError:   "writing report README.md: permission denied",
		},
		{
			name:          "get_is_rejected",
			method:        http.MethodGet,
			expectStatus:  http.StatusMethodNotAllowed,
			expectMessage: "method not allowed",
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			var invocations int32
			server := httpapi.NewServer(httpapi.Config{
				Pipeline: httpapi.PipelineFunc(func(context.Context) error {
					atomic.AddInt32(&invocations, 1)
					return testCase.pipelineError
				}),
			})
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(testCase.method, httpapi.RunAnalysisPath, nil)
			server.Handler().ServeHTTP(recorder, request)

			if recorder.Code != testCase.expectStatus {
				testingInstance.Fatalf("expected status %d, got %d", testCase.expectStatus, recorder.Code)
			}
			if contentType := recorder.Header().Get("Content-Type"); contentType != "application/json" {
				testingInstance.Fatalf("unexpected content type %q", contentType)
			}
			response := decodeResponse(testingInstance, recorder)
			if response.Message != testCase.expectMessage || response.Error != testCase.expectError {
				testingInstance.Fatalf("unexpected response %+v", response)
			}
			expectedInvocations := int32(1)
			if testCase.method != http.MethodPost {
				expectedInvocations = 0
			}
			if atomic.LoadInt32(&invocations) != expectedInvocations {
				testingInstance.Fatalf("expected %d pipeline invocations, got %d", expectedInvocations, invocations)
			}
		})
	}
}

func TestRunAnalysisSerializesPipelineRuns(testingInstance *testing.T) {
	var active, maximum int32
	server := httpapi.NewServer(httpapi.Config{
		Pipeline: httpapi.PipelineFunc(func(context.Context) error {
			current := atomic.AddInt32(&active, 1)
			for {
				observed := atomic.LoadInt32(&maximum)
				if current <= observed || atomic.CompareAndSwapInt32(&maximum, observed, current) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return nil
		}),
	})
	handler := server.Handler()

	var waitGroup sync.WaitGroup
	for requestIndex := 0; requestIndex < 5; requestIndex++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, httpapi.RunAnalysisPath, nil))
		}()
	}
	waitGroup.Wait()

	if atomic.LoadInt32(&maximum) != 1 {
		testingInstance.Fatalf("expected serialized runs, saw %d concurrent", maximum)
	}
}

func TestAnalysisPipelineRegeneratesReport(testingInstance *testing.T) {
	shellPath, lookupError := exec.LookPath("sh")
	if lookupError != nil {
		testingInstance.Skipf("sh not available: %v", lookupError)
	}
	memoryFileSystem := afero.NewMemMapFs()
	if writeError := afero.WriteFile(memoryFileSystem, "/site/index.html", []byte("x"), 0o644); writeError != nil {
		testingInstance.Fatalf("write: %v", writeError)
	}
	fileSystemService := filesystem.NewService(memoryFileSystem)
	treeBuilder := commands.NewTreeBuilder(fileSystemService, config.DefaultIgnoreNames(), nil)
	generator := commands.NewReportGenerator(treeBuilder, fileSystemService, "README.md", "", nil)

	testCases := []struct {
		name         string
		script       string
		expectStatus int
		expectReport bool
	}{
		{name: "script_failure_skips_report", script: "echo broken >&2; exit 1", expectStatus: http.StatusInternalServerError, expectReport: false},
		{name: "script_success_writes_report", script: "exit 0", expectStatus: http.StatusOK, expectReport: true},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			pipeline := httpapi.AnalysisPipeline{
				Runner:        analysis.NewRunner(analysis.Config{Command: []string{shellPath, "-c", testCase.script}}, nil),
				Generator:     generator,
				RootDirectory: "/site",
			}
			server := httpapi.NewServer(httpapi.Config{Pipeline: pipeline})
			recorder := httptest.NewRecorder()
			server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, httpapi.RunAnalysisPath, nil))
			if recorder.Code != testCase.expectStatus {
				testingInstance.Fatalf("expected status %d, got %d: %s", testCase.expectStatus, recorder.Code, recorder.Body.String())
			}
			if testCase.expectStatus == http.StatusInternalServerError {
				if response := decodeResponse(testingInstance, recorder); response.Error != "broken" {
					testingInstance.Fatalf("expected stderr diagnostic, got %+v", response)
				}
			}
			exists, _ := afero.Exists(memoryFileSystem, "/site/README.md")
			if exists != testCase.expectReport {
				testingInstance.Fatalf("expected report existence %t, got %t", testCase.expectReport, exists)
			}
		})
	}
}

func TestServerRunServesUntilCanceled(testingInstance *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := httpapi.NewServer(httpapi.Config{Address: "127.0.0.1:0"})
	addressCh := make(chan string, 1)
	errorCh := make(chan error, 1)
	go func() {
		errorCh <- server.Run(ctx, func(address string) {
			addressCh <- address
		})
	}()

	select {
	case address := <-addressCh:
		client := http.Client{Timeout: 2 * time.Second}
		response, requestError := client.Post("http://"+address+httpapi.RunAnalysisPath, "application/json", nil)
		if requestError != nil {
			testingInstance.Fatalf("perform request: %v", requestError)
		}
		response.Body.Close()
		if response.StatusCode != http.StatusOK {
			testingInstance.Fatalf("unexpected status: %d", response.StatusCode)
		}
		rootResponse, rootError := client.Get("http://" + address + "/")
		if rootError != nil {
			testingInstance.Fatalf("root request: %v", rootError)
		}
		rootResponse.Body.Close()
		if rootResponse.StatusCode != http.StatusOK {
			testingInstance.Fatalf("unexpected root status: %d", rootResponse.StatusCode)
		}
	case runError := <-errorCh:
		testingInstance.Fatalf("server exited early: %v", runError)
	case <-time.After(5 * time.Second):
		testingInstance.Fatalf("server did not start")
	}

	cancel()
	select {
	case runError := <-errorCh:
		if runError != nil {
			testingInstance.Fatalf("unexpected run error: %v", runError)
		}
	case <-time.After(5 * time.Second):
		testingInstance.Fatalf("server did not shut down")
	}
}
