// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	authapifeature "filevault/internal/app/features/authapi"
	fileapifeature "filevault/internal/app/features/fileapi"
	folderapifeature "filevault/internal/app/features/folderapi"
	healthfeature "filevault/internal/app/features/health"
	filestore "filevault/internal/app/store/file"
	folderstore "filevault/internal/app/store/folder"
	userstore "filevault/internal/app/store/users"
	"filevault/internal/app/system/apicors"
	"filevault/internal/app/system/auth"
	"filevault/internal/app/system/jsonutil"
	"filevault/internal/app/tree"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, and schema setup
// have completed. All routes are JSON API routes: bearer-token auth, no
// sessions, no CSRF, permissive CORS.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	users := userstore.New(deps.MongoDatabase)
	folders := folderstore.New(deps.MongoDatabase)
	files := filestore.New(deps.MongoDatabase)

	tokens := auth.New(users, appCfg.JWTSecret, appCfg.TokenExpiry, logger)
	treeMgr := tree.NewManager(folders, files, deps.FileStorage, logger)

	authHandler := authapifeature.NewHandler(users, tokens, logger)
	fileHandler := fileapifeature.NewHandler(treeMgr, appCfg.MaxUploadSize, logger)
	folderHandler := folderapifeature.NewHandler(treeMgr, logger)
	healthHandler := healthfeature.NewHandler(deps.MongoClient, appCfg.StorageType, logger)

	r := chi.NewRouter()

	// Request timeout middleware: prevents requests from hanging
	// indefinitely. Long enough for large uploads and downloads.
	r.Use(chimw.Timeout(5 * time.Minute))

	// CORS middleware: must be early in the chain to handle preflight
	// requests from browser clients.
	r.Use(apicors.Middleware())

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		jsonutil.OK(w, map[string]string{
			"message": "File Management API",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Mount("/api/auth", authapifeature.Routes(authHandler, tokens))
	r.Mount("/api/files", fileapifeature.Routes(fileHandler, tokens))
	r.Mount("/api/folders", folderapifeature.Routes(folderHandler, tokens))

	return r, nil
}
