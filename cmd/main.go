package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "blogbox/api/v1"
	"blogbox/config"
	"blogbox/dao"
	"blogbox/internal/storage"
	myvalidator "blogbox/internal/validator"
	"blogbox/middleware"
	"blogbox/model"
	"blogbox/service"
)

func main() {
	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	// 初始化数据库
	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// 自动迁移
	if err := db.AutoMigrate(&model.User{}, &model.Post{}); err != nil {
		panic(err)
	}

	// 初始化上传目录
	ingestor, err := storage.NewIngestor(storage.Config{Dir: config.GlobalConfig.Upload.Dir})
	if err != nil {
		panic(err)
	}

	// 初始化 DAO 和 Service
	userDAO := dao.NewUserDAO(db)
	postDAO := dao.NewPostDAO(db)
	userService := service.NewUserService(userDAO)
	postService := service.NewPostService(postDAO, ingestor)
	userAPI := v1.NewUserAPI(userService)
	postAPI := v1.NewPostAPI(postService)

	// 初始化路由
	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("username", myvalidator.IsUsername); err != nil {
			panic(err)
		}
	}

	// 上传文件静态访问
	r.Static("/image", ingestor.Dir())

	// 用户路由
	user := r.Group("/user")
	{
		user.POST("/register", userAPI.Register)
		loginLimiter := middleware.LoginRateLimiter(config.RedisClient, 5, time.Minute)
		user.POST("/login", loginLimiter, userAPI.Login)
	}

	// 帖子路由：读公开，写需要登录
	post := r.Group("/post")
	{
		post.GET("/", postAPI.List)
		post.GET("/:id", postAPI.GetByID)
		post.GET("/user/:userId", postAPI.ListByUser)

		authed := post.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/", postAPI.Create)
			authed.PUT("/:id", postAPI.Update)
			authed.DELETE("/:id", postAPI.Delete)
		}
	}

	// 启动服务
	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
