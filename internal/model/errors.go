package model

import "fmt"

// GenericFailureMessage is shown when a job ends in status "failed".
// No results fetch is attempted for failed jobs.
const GenericFailureMessage = "Analysis failed. Check the job logs for details."

// ValidationError rejects bad input before any network call is made
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// SubmissionError is a transport or non-2xx failure on job submission.
// Fatal to that attempt, recoverable by resubmission.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// TransportError is a fetch failure or a non-JSON response body. On polling
// channels it is absorbed as a transient error and never stops the lifecycle.
type TransportError struct {
	Op     string
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	msg := e.Op
	if e.Status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.Status)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// ReportedError is an analysis failure reported by the service itself in the
// results payload, distinct from transport failure. Its message is surfaced
// verbatim.
type ReportedError struct {
	Message string
}

func (e *ReportedError) Error() string { return e.Message }

// LoadError is a results fetch failure after completion. Terminal for that
// view attempt but retryable by revisiting history.
type LoadError struct {
	JobID string
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load results for %s: %v", e.JobID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
