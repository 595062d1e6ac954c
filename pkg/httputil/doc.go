// Package httputil provides the response helpers shared by HTTP handlers.
//
// # Overview
//
// Handlers report failures as structured errors from pkg/errors. This
// package translates them into status codes and small JSON bodies so
// that every route answers errors the same way:
//
//	img, err := render(name)
//	if err != nil {
//	    httputil.WriteError(w, err)
//	    return
//	}
//
// Error codes map to statuses as follows:
//
//   - NOT_FOUND, FILE_NOT_FOUND: 404
//   - validation codes (INVALID_*): 400
//   - OUT_OF_BOUNDS, SIZE_MISMATCH: 422
//   - anything else: 500
//
// # Query parameters
//
// [QueryInt] parses optional integer parameters with bounds, returning an
// INVALID_INPUT error that WriteError turns into a 400.
package httputil
