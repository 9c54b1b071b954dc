//	File Service API:
//	 version: 0.0.1
//	 title: File Service API
//	Schemes: http, https
//	BasePath: /
//	Produces:
//	  - application/json
//
// swagger:meta
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/didip/tollbooth/v6/limiter"
	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/gateway"
	. "github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
)

const (
	FileRPS    = 5  // File Request Per Second
	GeneralRPS = 10 // General Request Per Second

	DefaultExpirationTTL = time.Minute * 5
)

var (
	fileRL    *limiter.Limiter // file Rate Limiter
	generalRL *limiter.Limiter // general Rate Limiter
)

var storageGateway *gateway.StorageGateway

func GetMetaDataStore() datastore.Store {
	return datastore.GetStore()
}

func ConfigRateLimits() {
	tokenExpirettl := viper.GetDuration("rate_limiters.default_token_expire_duration")
	if tokenExpirettl <= 0 {
		tokenExpirettl = DefaultExpirationTTL
	}

	ipLookups := []string{"RemoteAddr", "X-Forwarded-For", "X-Real-IP"}

	isProxy := viper.GetBool("rate_limiters.proxy")
	if isProxy {
		ipLookups = []string{"X-Forwarded-For", "RemoteAddr", "X-Real-IP"}
	}

	fRps := viper.GetFloat64("rate_limiters.file_rps")
	gRps := viper.GetFloat64("rate_limiters.general_rps")

	if fRps <= 0 {
		fRps = FileRPS
	}

	if gRps <= 0 {
		gRps = GeneralRPS
	}

	Logger.Info("Setting rps: ",
		zap.Float64("file_rps", fRps),
		zap.Float64("general_rps", gRps),
	)

	fileRL = common.GetRateLimiter(fRps, ipLookups, true, tokenExpirettl)
	generalRL = common.GetRateLimiter(gRps, ipLookups, true, tokenExpirettl)
}

func RateLimitByFileRL(handler common.ReqRespHandlerf) common.ReqRespHandlerf {
	return common.RateLimit(handler, fileRL)
}

func RateLimitByGeneralRL(handler common.ReqRespHandlerf) common.ReqRespHandlerf {
	return common.RateLimit(handler, generalRL)
}

// SetupSwagger mounts the API documentation on the serving router.
func SetupSwagger(r *mux.Router) {
	r.Handle("/swagger.yaml", http.FileServer(http.Dir("/docs")))

	// documentation for developers
	opts := middleware.SwaggerUIOpts{SpecURL: "swagger.yaml"}
	r.Handle("/docs", middleware.SwaggerUI(opts, nil))
}

/*SetupHandlers sets up the necessary API end points */
func SetupHandlers(r *mux.Router, gw *gateway.StorageGateway) {
	storageGateway = gw

	ConfigRateLimits()
	r.Use(useRecovery, useCORS())

	r.HandleFunc("/v1/file/upload",
		RateLimitByFileRL(common.ToJSONResponse(WithConnection(UploadHandler)))).
		Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/v1/file/preview",
		RateLimitByGeneralRL(common.ToJSONResponse(WithReadOnlyConnection(PreviewHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/v1/file/download",
		RateLimitByFileRL(common.ToFileResponse(WithReadOnlyFileConnection(DownloadHandler)))).
		Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/healthz",
		RateLimitByGeneralRL(common.ToJSONResponse(HealthCheckHandler))).
		Methods(http.MethodGet)

	r.HandleFunc("/", RateLimitByGeneralRL(HomepageHandler)).
		Methods(http.MethodGet)

	// admin related
	r.HandleFunc("/_config", common.AuthenticateAdmin(common.ToJSONResponse(GetConfig)))

	SetupSwagger(r)
}

func WithReadOnlyConnection(handler common.JSONResponderF) common.JSONResponderF {
	return func(ctx context.Context, r *http.Request) (interface{}, error) {
		ctx = GetMetaDataStore().CreateTransaction(ctx)
		tx := GetMetaDataStore().GetTransaction(ctx)
		defer func() {
			tx.Rollback()
		}()

		res, err := handler(ctx, r)
		return res, err
	}
}

// WithReadOnlyFileConnection is WithReadOnlyConnection for handlers that
// stream file bytes instead of JSON.
func WithReadOnlyFileConnection(handler common.FileResponderF) common.FileResponderF {
	return func(ctx context.Context, r *http.Request) ([]byte, string, error) {
		ctx = GetMetaDataStore().CreateTransaction(ctx)
		tx := GetMetaDataStore().GetTransaction(ctx)
		defer func() {
			tx.Rollback()
		}()

		return handler(ctx, r)
	}
}

func WithConnection(handler common.JSONResponderF) common.JSONResponderF {
	return func(ctx context.Context, r *http.Request) (interface{}, error) {
		var (
			resp interface{}
			err  error
		)
		err = datastore.GetStore().WithNewTransaction(func(ctx context.Context) error {
			resp, err = handler(ctx, r)

			return err
		})
		return resp, err
	}
}

// HandleShutdown runs the teardown of request-serving state once the root
// context is cancelled.
func HandleShutdown(ctx context.Context) {
	go func() {
		<-ctx.Done()
		Logger.Info("Shutting down server")
		datastore.GetStore().Close()
	}()
}
