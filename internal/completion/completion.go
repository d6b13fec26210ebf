// Package completion talks to the remote text-completion service.
//
// Failures never surface as errors: a Client folds transport and format
// problems into a Fallback result whose text is FallbackText.
package completion

import "context"

// FallbackText is saved in place of generated content when completion fails.
const FallbackText = "返信下書きの生成に失敗しました。"

// Params are the per-deployment request settings.
type Params struct {
	MaxTokens   int64
	Temperature float64
}

// Request is a single completion call. It is built fresh for every invocation.
type Request struct {
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Result holds either generated text or the fallback sentinel.
type Result struct {
	Text     string
	Fallback bool
	// Err is the masked cause of a fallback, kept for logging only.
	Err error
}

// Text builds a successful result.
func Text(s string) Result {
	return Result{Text: s}
}

// Fallback builds a failed result carrying cause.
func Fallback(cause error) Result {
	return Result{Text: FallbackText, Fallback: true, Err: cause}
}

// Client sends a Request and returns the generated text or a fallback.
type Client interface {
	Complete(ctx context.Context, req Request) Result
}
