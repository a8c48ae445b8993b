package wire

import (
	"ReaView/internal/api"
	"ReaView/internal/api/config"
	"ReaView/internal/api/handler"
	"ReaView/internal/job"
	"ReaView/internal/pkg/cron"
	"ReaView/internal/pkg/kafka"
	"ReaView/internal/pkg/mongo"
	"ReaView/internal/pkg/provider"
	"ReaView/internal/repository"
	"ReaView/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoConn *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepo(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	itemRepo := repository.NewItemRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	ratingRepo := repository.NewRatingRepo(db)
	actionRepo := repository.NewReviewActionRepo(db)
	activityRepo := repository.NewActivityRepo(db)
	libraryRepo := repository.NewLibraryRepo(db)
	listRepo := repository.NewCustomListRepo(db)
	slotRepo := repository.NewIDSlotRepo(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoConn)

	metaProvider := provider.NewClient(cfg.Provider)
	posterService := service.NewPosterService(
		itemRepo,
		metaProvider,
		time.Duration(cfg.Provider.Timeout)*time.Second,
		time.Duration(cfg.Provider.MissTTL)*time.Second,
	)
	ratingService := service.NewRatingService(transactor, itemRepo, reviewRepo, ratingRepo, activityRepo, slotRepo)
	itemService := service.NewItemService(itemRepo, actionRepo, ratingService, posterService)
	reviewService := service.NewReviewService(transactor, reviewRepo, actionRepo, itemRepo, userRepo, activityRepo, slotRepo)
	reviewActionService := service.NewReviewActionService(transactor, actionRepo, reviewRepo, itemRepo, userRepo, activityRepo)
	libraryService := service.NewLibraryService(transactor, libraryRepo, itemRepo)
	listService := service.NewCustomListService(transactor, listRepo, itemRepo, userFollowRepo, activityRepo)
	userFollowService := service.NewUserFollowService(transactor, userFollowRepo, userRepo, activityRepo)
	feedService := service.NewFeedService(userFollowRepo, activityRepo, actionRepo, userRepo, posterService, cfg.Feed)
	sysBoxService := service.NewSysBoxService(sysBoxRepo, userRepo)

	handlers := &api.HandlersGroup{
		FeedHandler:         handler.NewFeedHandler(feedService),
		ItemHandler:         handler.NewItemHandler(itemService, ratingService),
		RatingHandler:       handler.NewRatingHandler(ratingService),
		ReviewHandler:       handler.NewReviewHandler(reviewService),
		ReviewActionHandler: handler.NewReviewActionHandler(reviewActionService),
		LibraryHandler:      handler.NewLibraryHandler(libraryService),
		CustomListHandler:   handler.NewCustomListHandler(listService),
		UserFollowHandler:   handler.NewUserFollowHandler(userFollowService),
		SysBoxHandler:       handler.NewSysBoxHandler(sysBoxService),
	}

	router := api.SetupRouter(handlers, cfg.Server.CORSOrigins)

	// 未配置 broker 时不启动消费者
	var kafkaMgr *kafka.ConsumerManager
	if len(cfg.Kafka.Brokers) > 0 {
		var err error
		kafkaMgr, err = kafka.NewConsumerManager(
			cfg,
			kafka.NewActivityHandler(reviewRepo, actionRepo, sysBoxRepo),
			kafka.NewItemHandler(posterService),
		)
		if err != nil {
			return nil, err
		}
	}

	cronMgr := cron.NewCronManager(
		cfg.Cron,
		job.NewPosterBackfillJob(posterService, cfg.Cron.PosterBatch),
		job.NewSlotReconcileJob(slotRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
