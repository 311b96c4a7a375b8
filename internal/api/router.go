package api

import (
	"github.com/uknown4ever/parking/internal/api/handler"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(ps *service.ParkingService) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	v1 := r.Group("/api/v1")
	{
		spaceH := handler.NewSpaceHandler(ps)
		spaceRoutes := v1.Group("/spaces")
		{
			spaceRoutes.POST("", spaceH.CreateSpace)
			spaceRoutes.GET("", spaceH.FindSpaces)
			spaceRoutes.GET("/free", spaceH.FindFreeSpaces)
			spaceRoutes.GET("/:id", spaceH.GetSpaceByID)
			spaceRoutes.PUT("/:id", spaceH.UpdateSpace)
			spaceRoutes.DELETE("/:id", spaceH.DeleteSpace)
		}

		vehicleH := handler.NewVehicleHandler(ps)
		vehicleRoutes := v1.Group("/vehicles")
		{
			vehicleRoutes.POST("", vehicleH.CreateVehicle)
			vehicleRoutes.GET("", vehicleH.GetVehicles)
			vehicleRoutes.GET("/:id", vehicleH.GetVehicleByID)
			vehicleRoutes.PUT("/:id", vehicleH.UpdateVehicle)
			vehicleRoutes.DELETE("/:id", vehicleH.DeleteVehicle)
			vehicleRoutes.GET("/:id/sessions", vehicleH.GetVehicleSessions)
		}

		sessionH := handler.NewSessionHandler(ps)
		sessionRoutes := v1.Group("/sessions")
		{
			sessionRoutes.POST("/open", sessionH.OpenSession)
			sessionRoutes.POST("/:id/close", sessionH.CloseSession)
			sessionRoutes.GET("", sessionH.FindSessions)
			sessionRoutes.GET("/open", sessionH.GetOpenSessions)
			sessionRoutes.GET("/:id", sessionH.GetSessionByID)
			sessionRoutes.PUT("/:id", sessionH.UpdateSession)
			sessionRoutes.DELETE("/:id", sessionH.DeleteSession)
		}

		v1.GET("/revenue/monthly", sessionH.MonthlyRevenue)
	}
	return r
}
