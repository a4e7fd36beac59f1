package routers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"storefront/handlers"
	"storefront/jwt"
	"storefront/middleware"
	"storefront/store"
)

func SetupRouters(db *gorm.DB, tokens *jwt.Manager, upload handlers.ProductUploadConfig) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	_ = router.SetTrustedProxies(nil)

	// uploaded product images
	router.Static("/uploads", upload.UploadsDir)

	products := store.NewProductStore(db)
	feedbacks := store.NewFeedbackStore(db)

	router.Use(middleware.AuthMiddleware(tokens))

	prod := router.Group("/api/prod")
	{
		prod.GET("/categories", func(context *gin.Context) {
			handlers.GetCategoriesHandler(context, products)
		})
		prod.GET("/category/:category", func(context *gin.Context) {
			handlers.GetProductsByCategoryHandler(context, products)
		})

		listProducts := func(context *gin.Context) {
			handlers.GetProductListHandler(context, products)
		}
		prod.GET("", listProducts)
		prod.GET("/", listProducts)

		createProduct := func(context *gin.Context) {
			handlers.CreateProductHandler(context, products, upload)
		}
		prod.POST("", createProduct)
		prod.POST("/", createProduct)

		prod.GET("/searchsort", func(context *gin.Context) {
			handlers.SearchSortHandler(context, products)
		})
		prod.POST("/feedback", middleware.CheckLoginMiddleware(), func(context *gin.Context) {
			handlers.AddFeedbackHandler(context, feedbacks)
		})
		prod.GET("/feedbacks/:productId", func(context *gin.Context) {
			handlers.GetFeedbacksHandler(context, feedbacks)
		})
		prod.GET("/:id", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, products)
		})
	}

	user := router.Group("/api/user")
	{
		user.POST("/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, db)
		})
		user.POST("/login", func(context *gin.Context) {
			handlers.LoginHandler(context, db, tokens)
		})

		loginRequired := user.Group("")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			loginRequired.GET("/profile", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, db)
			})
			loginRequired.POST("/logout", func(context *gin.Context) {
				handlers.LogOutHandler(context, tokens)
			})
		}
	}

	return router
}
