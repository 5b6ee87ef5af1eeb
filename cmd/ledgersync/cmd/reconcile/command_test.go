package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/tallyops/ledgersync"
	"github.com/tallyops/ledgersync/cmd/application"
)

type stubReconciler struct {
	result *ledgersync.Result
	err    error
}

func (s *stubReconciler) Run(_ context.Context) (*ledgersync.Result, error) {
	return s.result, s.err
}

func (s *stubReconciler) Check(_ context.Context) (*ledgersync.CheckReport, error) {
	return nil, s.err
}

// captureStdout redirects os.Stdout while fn runs and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fnErr := fn()

	_ = w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured output: %v", err)
	}

	return string(data), fnErr
}

func TestNewCommandRegistersFlags(t *testing.T) {
	cmd := NewCommand(&application.Mock{})

	if cmd.Use != "reconcile" {
		t.Errorf("Use = %q, want reconcile", cmd.Use)
	}

	for _, name := range []string{
		"dry-run",
		"keep-upload",
		"main-sheet-id",
		"upload-sheet-id",
		"credentials",
		"layout",
	} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestBuildOptions(t *testing.T) {
	tests := []struct {
		name  string
		flags *Flags
		want  int
	}{
		{
			name:  "no flags set",
			flags: &Flags{},
			want:  0,
		},
		{
			name:  "dry run only",
			flags: &Flags{DryRun: true},
			want:  1,
		},
		{
			name:  "document overrides",
			flags: &Flags{MainSheetID: "m", UploadSheetID: "u"},
			want:  2,
		},
		{
			name: "all flags set",
			flags: &Flags{
				DryRun:        true,
				KeepUpload:    true,
				MainSheetID:   "m",
				UploadSheetID: "u",
				Credentials:   "/tmp/sa.json",
				Layout:        "/tmp/layout.yaml",
			},
			want: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := buildOptions(tt.flags)
			if len(opts) != tt.want {
				t.Errorf("buildOptions() returned %d options, want %d", len(opts), tt.want)
			}
		})
	}
}

func TestExecuteReconcileJSONOutput(t *testing.T) {
	var gotOpts int
	mock := &application.Mock{
		ReconcilerFunc: func(opts ...ledgersync.Option) (ledgersync.Reconciler, error) {
			gotOpts = len(opts)
			return &stubReconciler{
				result: &ledgersync.Result{
					Updated:  2,
					Appended: 1,
					Skipped:  1,
					MainRows: 12,
					DryRun:   true,
				},
			}, nil
		},
		OutputFormatFunc: func() string { return "json" },
		QuietFunc:        func() bool { return true },
	}

	out, err := captureStdout(t, func() error {
		return ExecuteReconcile(context.Background(), mock, &Flags{DryRun: true})
	})
	if err != nil {
		t.Fatalf("ExecuteReconcile() failed: %v", err)
	}

	if gotOpts != 1 {
		t.Errorf("reconciler received %d options, want 1", gotOpts)
	}

	var result ledgersync.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	if result.Updated != 2 {
		t.Errorf("Updated = %d, want 2", result.Updated)
	}
	if result.Appended != 1 {
		t.Errorf("Appended = %d, want 1", result.Appended)
	}
	if result.MainRows != 12 {
		t.Errorf("MainRows = %d, want 12", result.MainRows)
	}
	if !result.DryRun {
		t.Error("DryRun = false, want true")
	}
}

func TestExecuteReconcilePropagatesRunError(t *testing.T) {
	runErr := errors.New("write-back failed")
	mock := &application.Mock{
		ReconcilerFunc: func(_ ...ledgersync.Option) (ledgersync.Reconciler, error) {
			return &stubReconciler{err: runErr}, nil
		},
		QuietFunc: func() bool { return true },
	}

	err := ExecuteReconcile(context.Background(), mock, &Flags{})
	if !errors.Is(err, runErr) {
		t.Errorf("ExecuteReconcile() error = %v, want %v", err, runErr)
	}
}

func TestExecuteReconcilePropagatesBuildError(t *testing.T) {
	buildErr := errors.New("bad layout file")
	mock := &application.Mock{
		ReconcilerFunc: func(_ ...ledgersync.Option) (ledgersync.Reconciler, error) {
			return nil, buildErr
		},
		QuietFunc: func() bool { return true },
	}

	err := ExecuteReconcile(context.Background(), mock, &Flags{})
	if !errors.Is(err, buildErr) {
		t.Errorf("ExecuteReconcile() error = %v, want %v", err, buildErr)
	}
}
