package common

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	// AppErrorHeader - a http response header to send an application error code.
	AppErrorHeader = "X-App-Error-Code"
)

/*ReqRespHandlerf - a type for the default handler signature */
type ReqRespHandlerf func(w http.ResponseWriter, r *http.Request)

/*JSONResponderF - a handler that takes a standard request and responds with a json response */
type JSONResponderF func(ctx context.Context, r *http.Request) (interface{}, error)

// FileResponderF - a handler that responds with raw file bytes plus a suggested
// attachment filename.
type FileResponderF func(ctx context.Context, r *http.Request) ([]byte, string, error)

func errorStatusCode(err error) int {
	if cerr, ok := err.(*Error); ok && cerr.StatusCode != 0 {
		return cerr.StatusCode
	}
	return 400
}

/*Respond - respond either data or error as a response */
func Respond(w http.ResponseWriter, data interface{}, err error) {
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS for all.
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if err != nil {
		data := make(map[string]interface{}, 2)
		data["error"] = err.Error()
		if cerr, ok := err.(*Error); ok {
			data["code"] = cerr.Code
			w.Header().Set(AppErrorHeader, cerr.Code)
		}
		buf := bytes.NewBuffer(nil)
		json.NewEncoder(buf).Encode(data) //nolint:errcheck // checked in previous step
		w.WriteHeader(errorStatusCode(err))
		fmt.Fprintln(w, buf.String())
	} else if data != nil {
		json.NewEncoder(w).Encode(data) //nolint:errcheck // checked in previous step
	}
}

func RespondGzip(w http.ResponseWriter, data interface{}, err error) {
	w.Header().Set("Access-Control-Allow-Origin", "*") // CORS for all.
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if err != nil {
		Respond(w, data, err)
		return
	}
	if data != nil {
		w.Header().Set("Content-Encoding", "gzip")
		gw := gzip.NewWriter(w)
		defer gw.Close()
		json.NewEncoder(gw).Encode(data) //nolint:errcheck // checked in previous step
	}
}

/*ToJSONResponse - an adapter that takes a handler of the form
* func AHandler(ctx context.Context, r *http.Request) (interface{}, error)
* which takes a request object, processes and returns an object or an error
* and converts it into a standard request/response handler
 */
func ToJSONResponse(handler JSONResponderF) ReqRespHandlerf {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			SetupCORSResponse(w)
			return
		}
		ctx := r.Context()
		data, err := handler(ctx, r)
		Respond(w, data, err)
	}
}

// ToGzipJSONResponse is ToJSONResponse with a gzip-compressed success body.
func ToGzipJSONResponse(handler JSONResponderF) ReqRespHandlerf {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			SetupCORSResponse(w)
			return
		}
		ctx := r.Context()
		data, err := handler(ctx, r)
		RespondGzip(w, data, err)
	}
}

// ToFileResponse - an adapter that streams the returned bytes as an attachment.
// Errors are rendered the same way as Respond so callers always get a stable
// reason code, never truncated bytes.
func ToFileResponse(handler FileResponderF) ReqRespHandlerf {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" {
			SetupCORSResponse(w)
			return
		}
		ctx := r.Context()
		data, filename, err := handler(ctx, r)
		if err != nil {
			Respond(w, nil, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Write(data) //nolint:errcheck
	}
}

func SetupCORSResponse(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Accept-Encoding")
}

// TryParseForm parses the form if the content type allows it. Multipart bodies
// are left alone so the file part can still be streamed by the handler.
func TryParseForm(r *http.Request) {
	if r.Method == http.MethodPost {
		ct := r.Header.Get("Content-Type")
		if ct == "application/x-www-form-urlencoded" {
			r.ParseForm() //nolint:errcheck
		}
	} else {
		r.ParseForm() //nolint:errcheck
	}
}
