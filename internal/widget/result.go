package widget

import (
	"errors"

	"github.com/Armed-Dockers/audiobook-downloader/internal/jobs"
)

// FailureReason はポーリング失敗の理由です。成功時は ReasonNone です。
type FailureReason string

const (
	ReasonNone       FailureReason = ""
	ReasonHTTPStatus FailureReason = FailureReason(jobs.FailureHTTPStatus)
	ReasonNetwork    FailureReason = FailureReason(jobs.FailureNetwork)
	ReasonDecode     FailureReason = FailureReason(jobs.FailureDecode)
)

// PollResult は1回のポーリングの結果です。
type PollResult struct {
	Snapshot *jobs.StatusSnapshot
	Reason   FailureReason
	Err      error
}

// OK はポーリングが成功したかを返します。
func (r PollResult) OK() bool {
	return r.Err == nil && r.Snapshot != nil
}

func failed(err error) PollResult {
	reason := ReasonNetwork
	var fetchErr *jobs.FetchError
	if errors.As(err, &fetchErr) {
		reason = FailureReason(fetchErr.Kind)
	}
	return PollResult{Reason: reason, Err: err}
}
