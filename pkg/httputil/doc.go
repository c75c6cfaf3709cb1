// Package httputil fetches input graphs over HTTP.
//
// # Overview
//
// Graph files are usually local, but build, inspect and serve also accept an
// http or https URL. [Fetcher] downloads the body and stores it in a
// [cache.Cache] under the input key of the URL, so repeated builds of the
// same remote graph do not hit the network until the entry expires.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried; the fetcher wraps network failures, 429 and
// 5xx responses that way:
//
//	err := httputil.Retry(ctx, httputil.DefaultBackoff, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    ...
//	})
package httputil
