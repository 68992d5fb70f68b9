package route

import (
	"github.com/SeakMengs/Annotator/internal/constant"
	"github.com/SeakMengs/Annotator/internal/controller"
	"github.com/SeakMengs/Annotator/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Collections(r *gin.RouterGroup, ctrl *controller.Controller, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/collections")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", ctrl.Collection.CreateCollection)
	}

	// Everything below passes the collection access gate first
	c := v1.Group("/:collectionId")
	c.Use(middleware.CollectionAccess)
	{
		c.GET("", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Collection.GetCollection)
		c.PATCH("", middleware.RequireCollectionPermission(constant.CollectionUpdate), ctrl.Collection.UpdateCollection)
		c.DELETE("", middleware.RequireCollectionPermission(constant.CollectionDelete), ctrl.Collection.DeleteCollection)

		c.GET("/members", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Member.ListMembers)
		c.POST("/members", middleware.RequireCollectionPermission(constant.MemberAdd), ctrl.Member.AddMember)
		c.DELETE("/members", middleware.RequireCollectionPermission(constant.MemberRemove), ctrl.Member.RemoveMember)

		c.GET("/schemas", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Schema.ListSchemas)
		c.POST("/schemas", middleware.RequireCollectionPermission(constant.SchemaWrite), ctrl.Schema.CreateSchema)
		c.GET("/schemas/:schemaId", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Schema.GetSchema)
		c.PATCH("/schemas/:schemaId", middleware.RequireCollectionPermission(constant.SchemaWrite), ctrl.Schema.UpdateSchema)
		c.DELETE("/schemas/:schemaId", middleware.RequireCollectionPermission(constant.SchemaWrite), ctrl.Schema.DeleteSchema)

		c.GET("/images", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Image.ListImages)
		c.POST("/images", middleware.RequireCollectionPermission(constant.ImageWrite), ctrl.Image.CreateImage)
		c.GET("/images/:imageId", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Image.GetImage)
		c.PATCH("/images/:imageId", middleware.RequireCollectionPermission(constant.ImageWrite), ctrl.Image.UpdateImage)
		c.DELETE("/images/:imageId", middleware.RequireCollectionPermission(constant.ImageWrite), ctrl.Image.DeleteImage)

		a := c.Group("/images/:imageId/annotations")
		a.GET("", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Annotation.ListAnnotations)
		a.POST("", middleware.RequireCollectionPermission(constant.AnnotationWrite), ctrl.Annotation.CreateAnnotation)
		a.GET("/:annotationId", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Annotation.GetAnnotation)
		a.PATCH("/:annotationId", middleware.RequireCollectionPermission(constant.AnnotationWrite), ctrl.Annotation.UpdateAnnotation)
		a.DELETE("/:annotationId", middleware.RequireCollectionPermission(constant.AnnotationWrite), ctrl.Annotation.DeleteAnnotation)
		a.GET("/:annotationId/region", middleware.RequireCollectionPermission(constant.CollectionRead), ctrl.Annotation.GetAnnotationRegion)
	}
}
