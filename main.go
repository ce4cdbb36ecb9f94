package main

import (
	"context"
	"log"
	"os"

	"jobmarket-server/routes"
	"jobmarket-server/services"
	"jobmarket-server/storage"
	"jobmarket-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeObjectStore()

	// Verification pipeline wiring: gorm-backed stores, S3 documents, events
	// fanned out through Redis so reviewer decisions reach sessions on any
	// instance.
	hub := services.NewHub()
	bridge := services.NewRedisEventBridge(storage.Redis, hub)
	go bridge.Run(context.Background())

	store := services.NewGormVerificationStore(db)
	verification := services.NewVerificationService(
		store, store, storage.Objects, bridge, services.NotificationServiceInstance)
	routes.InitVerification(verification, hub)
	routes.InitPayments(services.NewHTTPPaymentProvider())

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web client
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/google", routes.GoogleLoginOrSignUp)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/{id:uint}", accessTokenVerifierMiddleware, routes.GetUser)
		user.Patch("/profile", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateUserProfile)
		user.Patch("/pushtoken", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AlterPushToken)
		user.Patch("/settings/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.AllowsNotifications)

		// Identity verification
		user.Post("/verification/check", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CheckVerificationDocument)
		user.Post("/verification/submit", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.SubmitVerificationRequest)
		user.Get("/verification/status", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetVerificationStatus)
		user.Get("/verification/events", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.VerificationEvents)
	}

	jobs := app.Party("/api/jobs")
	{
		jobs.Get("/", routes.SearchJobPosts)
		jobs.Get("/{id:uint}", routes.GetJobPost)
		jobs.Post("/", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CreateJobPost)
		jobs.Get("/mine", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListMyJobPosts)
		jobs.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.UpdateJobPost)
		jobs.Post("/{id:uint}/close", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.CloseJobPost)
		jobs.Get("/{id:uint}/applications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.ListApplicationsForPost)
	}

	applications := app.Party("/api/applications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		applications.Post("/", routes.CreateApplication)
		applications.Get("/mine", routes.ListMyApplications)
		applications.Patch("/{id:uint}/status", routes.UpdateApplicationStatus)
		applications.Post("/{id:uint}/withdraw", routes.WithdrawApplication)
	}

	messages := app.Party("/api", accessTokenVerifierMiddleware)
	{
		messages.Post("/conversation", routes.CreateConversation)
		messages.Get("/conversations", routes.ListConversations)
		messages.Post("/messages", routes.CreateMessage)
		messages.Get("/messages", routes.ListMessages)
		messages.Post("/messages/state", routes.SetMessageState)
	}

	payments := app.Party("/api/payments", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		payments.Post("/", routes.CreatePayment)
		payments.Get("/mine", routes.ListMyPayments)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Get("/users/{id:uint}", routes.AdminGetUser)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, routes.AdminChangeUserRole)
		admin.Get("/verifications", routes.AdminListVerificationRequests)
		admin.Post("/verifications/{id:uint}/approve", routes.AdminApproveVerification)
		admin.Post("/verifications/{id:uint}/reject", routes.AdminRejectVerification)
		admin.Get("/stats", routes.AdminStats)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("🚀 Server starting on port " + port)
	app.Listen(":" + port)
}
