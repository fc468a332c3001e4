// Package server assembles the HTTP router: middleware stack, status endpoints, docs and the upload route.
package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/civiclens/uploader/internal/config"
	appMiddleware "github.com/civiclens/uploader/internal/middleware"
	"github.com/civiclens/uploader/internal/response"
	"github.com/civiclens/uploader/internal/upload"

	_ "github.com/civiclens/uploader/docs/swagger"
)

// Configurable describes whether the storage backend can be expected to accept uploads.
type Configurable interface {
	Configured() bool
}

// NewRouter wires middleware and routes. storage may be nil for backends that have
// no credentials to report on.
func NewRouter(cfg *config.Config, uploads *upload.Handler, svc *upload.Service, storage Configurable) http.Handler {
	m := &meta{cfg: cfg, svc: svc, storage: storage}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(appMiddleware.CORS(cfg.AllowedOrigins))

	r.Get("/", m.health)
	r.Get("/health", m.health)
	r.Get("/config", m.configStatus)
	r.Get("/test", m.selfTest)

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		if cfg.UploadJWTSecret != "" {
			r.Use(appMiddleware.RequireAuth(cfg.UploadJWTSecret))
		}
		r.Post("/upload", uploads.Upload)
	})

	return r
}

type meta struct {
	cfg     *config.Config
	svc     *upload.Service
	storage Configurable
}

type healthData struct {
	Status            string `json:"status" example:"ok"`
	Service           string `json:"service" example:"civic-lens-uploader"`
	Port              int    `json:"port" example:"3000"`
	Backend           string `json:"backend" example:"cloudinary"`
	StorageConfigured bool   `json:"storage_configured" example:"true"`
}

type configData struct {
	Backend      string `json:"backend" example:"cloudinary"`
	Folder       string `json:"folder" example:"encrypted_uploads"`
	CloudName    string `json:"cloud_name" example:"demo"`
	APIKeySet    bool   `json:"api_key_set" example:"true"`
	APISecretSet bool   `json:"api_secret_set" example:"true"`
	AuthRequired bool   `json:"auth_required" example:"false"`
}

type cloudinaryStatus struct {
	CloudName    string `json:"cloud_name" example:"demo"`
	APIKeySet    bool   `json:"api_key_set" example:"true"`
	APISecretSet bool   `json:"api_secret_set" example:"true"`
}

type selfTestData struct {
	Status           string           `json:"status" example:"ok"`
	Message          string           `json:"message" example:"Cloudinary uploader is working"`
	CloudinaryConfig cloudinaryStatus `json:"cloudinary_config"`
}

func (m *meta) configured() bool {
	if m.storage == nil {
		return true
	}
	return m.storage.Configured()
}

// health godoc
//
//	@Summary	Health check
//	@Tags		meta
//	@Produce	json
//	@Success	200	{object}	healthData
//	@Router		/health [get]
func (m *meta) health(w http.ResponseWriter, r *http.Request) {
	port, _ := strconv.Atoi(m.cfg.Port)
	response.OK(w, healthData{
		Status:            "ok",
		Service:           m.cfg.ServiceName,
		Port:              port,
		Backend:           m.svc.Backend(),
		StorageConfigured: m.configured(),
	})
}

// configStatus godoc
//
//	@Summary		Storage configuration status
//	@Description	Reports which provider settings are present. Secret values are never returned.
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	configData
//	@Router			/config [get]
func (m *meta) configStatus(w http.ResponseWriter, r *http.Request) {
	response.OK(w, configData{
		Backend:      m.svc.Backend(),
		Folder:       m.svc.Folder(),
		CloudName:    m.cfg.CloudName,
		APIKeySet:    m.cfg.CloudAPIKey != "",
		APISecretSet: m.cfg.CloudAPISecret != "",
		AuthRequired: m.cfg.UploadJWTSecret != "",
	})
}

// selfTest godoc
//
//	@Summary		Uploader self test
//	@Description	Confirms the service is up and which Cloudinary credentials are present.
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	selfTestData
//	@Router			/test [get]
func (m *meta) selfTest(w http.ResponseWriter, r *http.Request) {
	response.OK(w, selfTestData{
		Status:  "ok",
		Message: "Cloudinary uploader is working",
		CloudinaryConfig: cloudinaryStatus{
			CloudName:    m.cfg.CloudName,
			APIKeySet:    m.cfg.CloudAPIKey != "",
			APISecretSet: m.cfg.CloudAPISecret != "",
		},
	})
}
