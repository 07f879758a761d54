package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/logging"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const welcomeMessage = "Welcome to the ALX Travel App!"

type handler struct {
	svc    Services
	logger logging.Logger
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(svc Services, secret []byte, logger logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	h := &handler{svc: svc, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(accessLog(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(h.authenticate(secret))

	r.GET("/welcome/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
	})

	a := r.Group("/auth")
	a.POST("/login/", h.login)
	a.POST("/refresh/", h.refresh)

	// registration is open; the rest needs a token
	r.POST("/users/", h.createUser)
	u := r.Group("/users", requireAuth())
	u.GET("/", h.listUsers)
	u.GET("/:id/", h.getUser)
	u.PUT("/:id/", h.updateUser)
	u.PATCH("/:id/", h.updateUser)
	u.DELETE("/:id/", h.deleteUser)

	r.GET("/listings/", h.listListings)
	r.GET("/listings/:id/", h.getListing)
	r.GET("/listings/:id/photo/", h.listingPhoto)
	l := r.Group("/listings", requireAuth())
	l.POST("/", h.createListing)
	l.PUT("/:id/", h.updateListing)
	l.PATCH("/:id/", h.updateListing)
	l.DELETE("/:id/", h.deleteListing)
	l.POST("/:id/photo-upload/", h.listingPhotoUpload)

	b := r.Group("/bookings", requireAuth())
	b.POST("/", h.createBooking)
	b.GET("/", h.listBookings)
	b.GET("/:id/", h.getBooking)
	b.PUT("/:id/", h.updateBooking)
	b.PATCH("/:id/", h.updateBooking)
	b.DELETE("/:id/", h.deleteBooking)

	p := r.Group("/payments", requireAuth())
	p.GET("/", h.listPayments)
	p.GET("/:id/", h.getPayment)
	p.PUT("/:id/", h.updatePayment)
	p.PATCH("/:id/", h.updatePayment)
	p.DELETE("/:id/", h.deletePayment)

	r.GET("/reviews/", h.listReviews)
	r.GET("/reviews/:id/", h.getReview)
	rv := r.Group("/reviews", requireAuth())
	rv.POST("/", h.createReview)
	rv.PUT("/:id/", h.updateReview)
	rv.PATCH("/:id/", h.updateReview)
	rv.DELETE("/:id/", h.deleteReview)

	r.POST("/chapa/initiate/", requireAuth(), h.initiatePayment)
	r.GET("/chapa/verify/:tx_ref/", h.verifyPayment)
	r.GET("/chapa/callback/", h.paymentCallback)

	return r
}
