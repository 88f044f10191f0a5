package types

import "fmt"

// DuplicateArticleError indicates two fetched articles shared an id. This is a
// programmer or data error and aborts the query.
type DuplicateArticleError struct {
	ID string
}

func (e *DuplicateArticleError) Error() string {
	return fmt.Sprintf("duplicate article id %q", e.ID)
}

// FetchError indicates no usable articles could be retrieved. Recoverable by
// caller retry or a reduced count.
type FetchError struct {
	Company string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching news for %q: %v", e.Company, e.Err)
	}
	return fmt.Sprintf("no articles retrieved for %q", e.Company)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClassificationFailure records one article the classifier could not handle.
// It is absorbed into the report's failure count and never aborts the query
// on its own.
type ClassificationFailure struct {
	ArticleID string
	Reason    string
}

func (e *ClassificationFailure) Error() string {
	return fmt.Sprintf("classification failed for article %s: %s", e.ArticleID, e.Reason)
}

// InsufficientDataError indicates zero articles were successfully classified.
// Fatal for the query; distinct from the valid empty-comparisons state.
type InsufficientDataError struct {
	Company        string
	FailedArticles int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("no usable articles for %q (%d classification failures)", e.Company, e.FailedArticles)
}

// TTSUnavailableError indicates the speech stage failed. The report is still
// valid; audio export degrades gracefully.
type TTSUnavailableError struct {
	Err error
}

func (e *TTSUnavailableError) Error() string {
	return fmt.Sprintf("speech synthesis unavailable: %v", e.Err)
}

func (e *TTSUnavailableError) Unwrap() error { return e.Err }
