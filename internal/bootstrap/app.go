package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	googleauth "fileuploader-backend/internal/auth"
	"fileuploader-backend/internal/files"
	"fileuploader-backend/internal/folders"
	"fileuploader-backend/internal/queue"
	"fileuploader-backend/internal/shared/config"
	"fileuploader-backend/internal/shared/server"
	"fileuploader-backend/internal/shared/storage/blob"
	localstore "fileuploader-backend/internal/shared/storage/blob/local"
	s3store "fileuploader-backend/internal/shared/storage/blob/s3"
	"fileuploader-backend/internal/shared/storage/db"
	"fileuploader-backend/internal/stats"
	"fileuploader-backend/internal/users"
)

// App holds the wired application: storage backends, feature services, and
// the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  blob.Store
	Queue  queue.Client

	UsersRepo   users.Repo
	FoldersRepo folders.Repo
	FilesRepo   files.Repo

	UsersService   *users.Service
	FoldersService *folders.Service
	FilesService   *files.Service
	StatsService   *stats.Service

	UsersHandler   *users.Handler
	FoldersHandler *folders.Handler
	FilesHandler   *files.Handler
	StatsHandler   *stats.Handler
	GoogleAuth     *googleauth.GoogleService
}

// Build prepares all dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.BlobStoreType) == "" {
		cfg.BlobStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	routerDeps := server.RouterDeps{
		Config:         cfg,
		UsersHandler:   app.UsersHandler,
		FoldersHandler: app.FoldersHandler,
		FilesHandler:   app.FilesHandler,
		StatsHandler:   app.StatsHandler,
		GoogleAuth:     app.GoogleAuth,
	}
	if cfg.BlobStoreType == "local" {
		routerDeps.LocalBlobDir = cfg.LocalStoreDir
	}
	app.Router = server.NewRouter(routerDeps)

	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.S3PublicBaseURL, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.ReclaimQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.ReclaimQueueURL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var userRepo users.Repo
	var folderRepo folders.Repo
	var fileRepo files.Repo

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		folderRepo = &folders.PGRepo{DB: app.DB}
		fileRepo = &files.PGRepo{DB: app.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		memFolders := folders.NewMemoryRepo()
		memFiles := files.NewMemoryRepo()
		// The in-memory folders repo needs the files repo for its
		// empty-folder check; Postgres does this with an EXISTS query.
		memFolders.HasFiles = memFiles.HasInFolder
		userRepo = memUsers
		folderRepo = memFolders
		fileRepo = memFiles
	}

	userSvc := users.NewService(userRepo)
	folderSvc := &folders.Service{Repo: folderRepo}
	fileSvc := &files.Service{
		Repo:           fileRepo,
		Folders:        folderGuard{folders: folderSvc},
		Store:          app.Store,
		MaxUploadBytes: app.Config.MaxUploadBytes,
	}
	if app.Queue != nil {
		fileSvc.Reclaim = reclaimQueue{client: app.Queue}
	}
	folderSvc.Files = fileLister{files: fileRepo}
	statsSvc := stats.NewService(fileRepo, app.Config.MaxUploadBytes)

	app.UsersRepo = userRepo
	app.FoldersRepo = folderRepo
	app.FilesRepo = fileRepo
	app.UsersService = userSvc
	app.FoldersService = folderSvc
	app.FilesService = fileSvc
	app.StatsService = statsSvc
	app.UsersHandler = users.NewHandler(userSvc)
	app.FoldersHandler = folders.NewHandler(folderSvc)
	app.FilesHandler = files.NewHandler(fileSvc, app.Config.MaxUploadBytes)
	app.StatsHandler = stats.NewHandler(statsSvc)

	if app.Config.GoogleClientID != "" || app.Config.GoogleClientSecret != "" {
		app.GoogleAuth = googleauth.NewGoogleService(
			app.Config.GoogleClientID,
			app.Config.GoogleClientSecret,
			app.Config.GoogleRedirectURL,
			app.Config.UIRedirectURL,
			oauthAccounts{users: userSvc},
		)
	}
}

// folderGuard adapts the folders service to the files package's ownership
// check.
type folderGuard struct {
	folders *folders.Service
}

func (g folderGuard) Require(ctx context.Context, ownerID, folderID string) error {
	_, err := g.folders.Get(ctx, ownerID, folderID)
	if err != nil {
		if err == folders.ErrNotFound {
			return files.ErrNotFound
		}
		return err
	}
	return nil
}

// fileLister adapts the files repo to the folders package's listing slice.
// Ownership was already checked by the folders service, so it reads the repo
// directly.
type fileLister struct {
	files files.Repo
}

func (l fileLister) ListByFolder(ctx context.Context, ownerID, folderID string) ([]folders.FileEntry, error) {
	listed, err := l.files.ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	entries := make([]folders.FileEntry, 0, len(listed))
	for _, file := range listed {
		entries = append(entries, folders.FileEntry{
			ID:           file.ID,
			Name:         file.DisplayName,
			SizeBytes:    file.SizeBytes,
			StorageClass: string(file.StorageClass),
			CreatedAt:    file.CreatedAt,
		})
	}
	return entries, nil
}

// reclaimQueue adapts the queue client to the files package's reclaim hook.
type reclaimQueue struct {
	client queue.Client
}

func (q reclaimQueue) EnqueueReclaim(ctx context.Context, externalID string, class blob.Class) error {
	return q.client.Send(ctx, queue.Message{
		ExternalID:   externalID,
		StorageClass: string(class),
		EnqueuedAt:   time.Now().UTC().Format(time.RFC3339),
		Version:      1,
	})
}

// oauthAccounts adapts the users service to the Google auth callback.
type oauthAccounts struct {
	users *users.Service
}

func (a oauthAccounts) UpsertFromOAuth(ctx context.Context, email, fullName string) (string, error) {
	_, token, err := a.users.UpsertFromOAuth(ctx, email, fullName)
	return token, err
}
