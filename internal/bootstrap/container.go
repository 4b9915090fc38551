package bootstrap

import (
	"context"
	"log"

	"library-service-be/internal/config"
	"library-service-be/internal/controller"
	"library-service-be/internal/pkg/logger"
	"library-service-be/internal/pkg/mailer"
	"library-service-be/internal/pkg/serverutils"
	"library-service-be/internal/repository/unitofwork"
	"library-service-be/internal/scheduler"
	"library-service-be/internal/service"
	"library-service-be/pkg/events"
	"library-service-be/pkg/paymentgateway"

	pktNats "library-service-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	AuthController      controller.IAuthController
	UserController      controller.IUserController
	AuthorController    controller.IAuthorController
	BookController      controller.IBookController
	BorrowingController controller.IBorrowingController
	PaymentController   controller.IPaymentController

	// Background services (started by main)
	ConsumerService service.IConsumerService
	Scheduler       *scheduler.Scheduler
	Notifier        service.INotifier

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())
	notificationLogger := logger.NewIsolatedLogger(cfg.App.NotificationLogPath)
	c := &Container{Logger: sysLogger}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
		notificationLogger,
	)

	// 2. In-process queue for emails
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. Infrastructure
	// NATS: chat events for the bot process
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	// Redis: scheduler locks
	var locker scheduler.Locker = scheduler.NoopLocker{}
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Scheduler runs unlocked", err)
		} else {
			locker = scheduler.NewRedisLocker(rdb, "library:", sysLogger)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	}

	// Payment processor
	var processor paymentgateway.Processor
	switch cfg.Payment.Provider {
	case "stub":
		log.Printf("[INFO] Using payment processor: STUB")
		processor = paymentgateway.NewStubProcessor()
	default:
		log.Printf("[INFO] Using payment processor: MIDTRANS (production=%t)", cfg.Payment.IsProduction)
		processor = paymentgateway.NewMidtransProcessor(paymentgateway.MidtransConfig{
			ServerKey:    cfg.Payment.MidtransServerKey,
			IsProduction: cfg.Payment.IsProduction,
		})
	}

	// 4. Services
	notifier := service.NewNotificationService(uowFactory, eventPublisher, pubSub, notificationLogger)
	c.Notifier = notifier
	c.ConsumerService = service.NewConsumerService(pubSub, emailService, notificationLogger)

	authService := service.NewAuthService(uowFactory, notifier, cfg.Auth)
	userService := service.NewUserService(uowFactory)
	authorService := service.NewAuthorService(uowFactory, notifier)
	bookService := service.NewBookService(uowFactory)
	paymentService := service.NewPaymentService(uowFactory, processor, notifier, cfg.Payment, cfg.App.BaseURL, sysLogger)
	borrowingService := service.NewBorrowingService(uowFactory, paymentService, notifier, cfg.Library.FineMultiplier, sysLogger)

	// 5. Scheduler
	c.Scheduler = scheduler.New(locker, cfg.Scheduler.LockTTL, sysLogger)
	if cfg.Scheduler.Enabled {
		for _, job := range []scheduler.Job{
			scheduler.OverdueCheckJob(cfg.Scheduler.OverdueSpec, borrowingService),
			scheduler.ExpirySweepJob(cfg.Scheduler.ExpirySpec, paymentService),
		} {
			if err := c.Scheduler.Add(job); err != nil {
				log.Fatalf("[FATAL] %v", err)
			}
		}
	}

	// 6. Controllers
	auth := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	c.AuthController = controller.NewAuthController(authService)
	c.UserController = controller.NewUserController(userService, auth)
	c.AuthorController = controller.NewAuthorController(authorService, auth)
	c.BookController = controller.NewBookController(bookService, auth)
	c.BorrowingController = controller.NewBorrowingController(borrowingService, auth)
	c.PaymentController = controller.NewPaymentController(paymentService, auth, sysLogger)

	return c
}

// Close waits for in-flight notifications and releases connections.
func (c *Container) Close() {
	if c.Notifier != nil {
		c.Notifier.Wait()
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
