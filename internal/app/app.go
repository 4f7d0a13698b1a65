package app

import (
	"context"

	"turbocms/internal/config"
	"turbocms/internal/db"
	"turbocms/internal/handlers"
	"turbocms/internal/repository"
	"turbocms/internal/routes"
	"turbocms/internal/services"

	"github.com/gorilla/mux"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Хранилище документов (три партиции: main / projects / sheets)
	docRepo := repository.NewContentDocumentRepo(conn, cfg.AppID)
	if err := docRepo.EnsureSchema(context.Background()); err != nil {
		return nil, err
	}
	docRepo.Start(context.Background())

	// Движок синхронизации — ядро: оптимистичные правки, дебаунс, снапшоты
	engine := services.NewSyncEngine(docRepo, cfg.Debounce())
	if err := engine.Start(context.Background()); err != nil {
		return nil, err
	}

	// Сервисы
	contentSvc := services.NewContentService(engine)
	authSvc := services.NewAuthService(engine)
	articleSvc := services.NewArticleService(engine)
	editorSvc := services.NewEditorService(articleSvc, cfg.Autosave())
	rankingSvc := services.NewRankingService(engine)
	sheetSvc := services.NewSheetService(engine)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authSvc)
	contentHandler := handlers.NewContentHandler(contentSvc)
	watchHandler := handlers.NewWatchHandler(engine)
	articleHandler := handlers.NewArticleHandler(articleSvc, editorSvc)
	rankingHandler := handlers.NewRankingHandler(rankingSvc)
	sheetHandler := handlers.NewSheetHandler(sheetSvc)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, contentHandler, watchHandler, articleHandler, rankingHandler, sheetHandler)

	return router, nil
}
