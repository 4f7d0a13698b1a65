package routes

import (
	"turbocms/internal/handlers"
	"turbocms/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	watchHandler *handlers.WatchHandler,
	articleHandler *handlers.ArticleHandler,
	rankingHandler *handlers.RankingHandler,
	sheetHandler *handlers.SheetHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Logging)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/login", authHandler.Login).Methods("POST")

	api.HandleFunc("/content", contentHandler.GetAll).Methods("GET")
	api.HandleFunc("/content/watch", watchHandler.Watch).Methods("GET")
	api.HandleFunc("/content/{key}", contentHandler.GetSection).Methods("GET")

	api.HandleFunc("/projects", articleHandler.ListPublished).Methods("GET")
	api.HandleFunc("/projects/{id}", articleHandler.GetPublished).Methods("GET")

	api.HandleFunc("/ranking", rankingHandler.List).Methods("GET")

	// --- Защищённые JWT, только admin ---
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.JWTAuth)
	admin.Use(middleware.OnlyRole("admin"))

	admin.HandleFunc("/content", contentHandler.Update).Methods("PATCH", "OPTIONS")

	admin.HandleFunc("/banners/{id}/hotspots", contentHandler.SaveHotspots).Methods("PUT")
	admin.HandleFunc("/banners/{id}/hotspots/edit", contentHandler.BeginHotspotEdit).Methods("POST")
	admin.HandleFunc("/banners/{id}/hotspots/edit", contentHandler.EndHotspotEdit).Methods("DELETE")

	admin.HandleFunc("/articles/drafts", articleHandler.ListDrafts).Methods("GET")
	admin.HandleFunc("/articles/draft", articleHandler.SaveDraft).Methods("POST")
	admin.HandleFunc("/articles/publish", articleHandler.Publish).Methods("POST")
	admin.HandleFunc("/articles/{id}/edit", articleHandler.GetForEdit).Methods("GET")
	admin.HandleFunc("/articles/{id}", articleHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/editor", articleHandler.OpenEditor).Methods("POST")
	admin.HandleFunc("/editor/{id}/open", articleHandler.OpenEditorExisting).Methods("POST")
	admin.HandleFunc("/editor/{id}", articleHandler.UpdateEditor).Methods("PUT")
	admin.HandleFunc("/editor/{id}", articleHandler.CloseEditor).Methods("DELETE")

	admin.HandleFunc("/ranking", rankingHandler.Create).Methods("POST")
	admin.HandleFunc("/ranking/{id}", rankingHandler.Update).Methods("PATCH")
	admin.HandleFunc("/ranking/{id}", rankingHandler.Delete).Methods("DELETE")

	admin.HandleFunc("/sheets", sheetHandler.ListSheets).Methods("GET")
	admin.HandleFunc("/sheets", sheetHandler.SaveSheet).Methods("POST")
	admin.HandleFunc("/sheets/{id}", sheetHandler.DeleteSheet).Methods("DELETE")
	admin.HandleFunc("/folders", sheetHandler.ListFolders).Methods("GET")
	admin.HandleFunc("/folders", sheetHandler.CreateFolder).Methods("POST")
	admin.HandleFunc("/folders/{id}", sheetHandler.DeleteFolder).Methods("DELETE")
	admin.HandleFunc("/techsheet", sheetHandler.SaveTemplate).Methods("PUT")

	admin.HandleFunc("/users", authHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", authHandler.UpdateUser).Methods("PATCH")
	admin.HandleFunc("/users/{id}", authHandler.DeleteUser).Methods("DELETE")
}
