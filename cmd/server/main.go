package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dsaheb/dsahebapi/internal/config"
	"github.com/dsaheb/dsahebapi/internal/database"
	"github.com/dsaheb/dsahebapi/internal/events"
	"github.com/dsaheb/dsahebapi/internal/handlers"
	"github.com/dsaheb/dsahebapi/internal/middleware"
	"github.com/dsaheb/dsahebapi/internal/models"
	"github.com/dsaheb/dsahebapi/internal/repository"
	"github.com/dsaheb/dsahebapi/internal/service"
	"github.com/dsaheb/dsahebapi/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	dynamoClient, err := initDynamoDB(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Endpoint,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	db, err := database.Open(cfg.Postgres, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}

	s3Client, err := initS3(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize S3")
	}
	media := storage.NewS3ObjectStore(s3Client, cfg.Media.Bucket, cfg.Media.PublicBaseURL, logger)

	publisher := initPublisher(cfg, logger)
	defer publisher.Close()

	var messenger service.Messenger
	if cfg.SMS.Provider == "twilio" {
		messenger = service.NewTwilioMessenger(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From, logger)
	} else {
		messenger = service.NewLogMessenger(logger)
	}

	// Repositories
	table := cfg.DynamoDB.TableName
	userRepo := repository.NewUserRepository(dynamoClient, table, logger)
	otpRepo := repository.NewOTPRepository(dynamoClient, table, cfg.OTP.Retention, logger)
	attemptRepo := repository.NewLoginAttemptRepository(dynamoClient, table, cfg.Lockout.Retention, logger)
	tokenRepo := repository.NewOutstandingTokenRepository(dynamoClient, table, logger)
	blacklist := repository.NewTokenBlacklist(redisClient, logger)
	limiter := repository.NewRateLimiter(redisClient)

	listingRepo := repository.NewListingRepository(db, logger)
	refRepo := repository.NewReferenceRepository(db)
	educationRepo := repository.NewScopedRepository[models.Education](db, "user_id")
	trainingRepo := repository.NewScopedRepository[models.Training](db, "user_id")
	experienceRepo := repository.NewScopedRepository[models.Experience](db, "user_id")
	registrationRepo := repository.NewScopedRepository[models.RegistrationEntry](db, "user_id")
	availabilityRepo := repository.NewScopedRepository[models.Availability](db, "listing_id")
	unavailabilityRepo := repository.NewScopedRepository[models.Unavailability](db, "listing_id")
	reviewRepo := repository.NewScopedRepository[models.Review](db, "listing_id")
	patientRepo := repository.NewScopedRepository[models.PatientProfile](db, "user_id")

	// Services
	jwtService, err := service.NewJWTService(cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize JWT service")
	}
	otpService := service.NewOTPService(otpRepo, messenger, cfg.OTP, logger)
	lockoutService := service.NewLockoutService(attemptRepo, cfg.Lockout, logger)
	sessionService := service.NewSessionService(jwtService, tokenRepo, blacklist, userRepo, logger)
	authService := service.NewAuthService(userRepo, otpService, lockoutService, sessionService, messenger, publisher, logger)

	listingService := service.NewListingService(listingRepo, refRepo, educationRepo, experienceRepo, registrationRepo,
		media, publisher, cfg.Media.MaxImageBytes, logger)
	scheduleService := service.NewScheduleService(listingRepo, availabilityRepo, unavailabilityRepo)
	reviewService := service.NewReviewService(listingRepo, reviewRepo, publisher, logger)
	patientService := service.NewPatientService(patientRepo)

	authMiddleware := middleware.NewAuthMiddleware(sessionService, logger)
	router := handlers.NewRouter(handlers.Routes{
		Auth:       handlers.NewAuthHandlers(authService, logger),
		Listings:   handlers.NewListingHandlers(listingService, scheduleService, reviewService, cfg.Media.MaxImageBytes, logger),
		References: handlers.NewReferenceHandlers(refRepo, logger),
		Patients:   handlers.NewPatientHandlers(patientService, logger),
		Records: map[string]handlers.Registrar{
			"/educations":    handlers.NewRecordHandlers[models.Education, models.QualificationInput](service.NewEducationService(educationRepo), logger),
			"/trainings":     handlers.NewRecordHandlers[models.Training, models.QualificationInput](service.NewTrainingService(trainingRepo), logger),
			"/experiences":   handlers.NewRecordHandlers[models.Experience, models.ExperienceInput](service.NewExperienceService(experienceRepo), logger),
			"/registrations": handlers.NewRecordHandlers[models.RegistrationEntry, models.RegistrationEntryInput](service.NewRegistrationService(registrationRepo), logger),
		},
		RequireAuth:    authMiddleware.RequireAuth,
		OTPRateLimit:   middleware.RateLimit(limiter, "otp", cfg.RateLimit.OTPRequests, cfg.RateLimit.OTPWindow, logger),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func loadAWSConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if endpoint != "" {
		opts = append(opts, awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			})))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}

func initDynamoDB(cfg *config.Config, logger *logrus.Logger) (*dynamodb.Client, error) {
	awsCfg, err := loadAWSConfig(context.TODO(), cfg.DynamoDB.Region, cfg.DynamoDB.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg)
	logger.WithField("table", cfg.DynamoDB.TableName).Info("DynamoDB client initialized")
	return client, nil
}

func initS3(cfg *config.Config, logger *logrus.Logger) (*s3.Client, error) {
	awsCfg, err := loadAWSConfig(context.TODO(), cfg.Media.Region, cfg.Media.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Media.Endpoint != ""
	})
	logger.WithField("bucket", cfg.Media.Bucket).Info("S3 client initialized")
	return client, nil
}

// initPublisher connects to NATS when configured and falls back to dropping
// events otherwise.
func initPublisher(cfg *config.Config, logger *logrus.Logger) events.Publisher {
	if cfg.Events.NATSURL == "" {
		return events.NopPublisher{}
	}
	publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, logger)
	if err != nil {
		logger.WithError(err).Warn("Failed to connect to NATS, domain events disabled")
		return events.NopPublisher{}
	}
	return publisher
}
