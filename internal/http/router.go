package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"devicehub-api/internal/chat"
	"devicehub-api/internal/handlers"
	"devicehub-api/internal/service"
)

// Deps はルーター構築に必要なハンドラー群
type Deps struct {
	Auth     *service.AuthService
	AuthH    *handlers.AuthHandler
	UserH    *handlers.UserHandler
	RoomH    *handlers.RoomHandler
	DeviceH  *handlers.DeviceHandler
	ProductH *handlers.ProductHandler
	FeedH    *handlers.FeedbackHandler
	ActH     *handlers.ActivityHandler
	Gateway  *chat.Gateway
}

func NewRouter(d Deps, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	authed := handlers.Authenticate(d.Auth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthH.Register)
			r.Post("/login", d.AuthH.Login)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authed)
			r.Get("/me", d.UserH.Me)
			r.With(handlers.RequireAdmin).Get("/", d.UserH.List)
		})

		r.Route("/rooms", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", d.RoomH.Create)
			r.With(handlers.RequireAdmin).Get("/", d.RoomH.List)
			r.Patch("/{roomId}", d.RoomH.Update)
		})

		// RESTのメンバー登録とリアルタイム購読は別の操作（認可規則も別）
		r.Route("/chat", func(r chi.Router) {
			r.Use(authed)
			r.Get("/{roomId}", d.RoomH.ChatGet)
			r.Post("/{roomId}", d.RoomH.ChatJoin)
			r.Delete("/{roomId}", d.RoomH.ChatLeave)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", d.DeviceH.Create)
			r.Get("/", d.DeviceH.List)
			r.Get("/{deviceId}", d.DeviceH.Get)
			r.Patch("/{deviceId}", d.DeviceH.Update)
			r.With(handlers.RequireAdmin).Delete("/{deviceId}", d.DeviceH.Delete)
		})

		r.Route("/products", func(r chi.Router) {
			r.Use(authed)
			r.With(handlers.RequireAdmin).Post("/", d.ProductH.Create)
			r.Get("/", d.ProductH.List)
			r.Get("/{productId}", d.ProductH.Get)
			r.With(handlers.RequireAdmin).Patch("/{productId}", d.ProductH.Update)
			r.With(handlers.RequireAdmin).Delete("/{productId}", d.ProductH.Delete)
		})

		r.Route("/feedbacks", func(r chi.Router) {
			// 登録はアプリから未認証で送信される
			r.Post("/", d.FeedH.Create)
			r.With(authed, handlers.RequireAdmin).Get("/", d.FeedH.List)
			r.With(authed, handlers.RequireAdmin).Patch("/{feedbackId}", d.FeedH.Reply)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", d.ActH.Create)
			r.Get("/", d.ActH.List)
		})

		// チャット名前空間のWebSocketエンドポイント
		// 認証はGateway側でハンドシェイク時に行う（tokenクエリパラメータ）
		r.Get("/chatroom/ws", d.Gateway.HandleWebSocket)
	})

	return r
}
