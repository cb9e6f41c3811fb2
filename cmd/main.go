package main

import (
	"fmt"
	"net/http"
	"os"
	"short-video-agent/application/ports/inbound"
	"short-video-agent/application/ports/outbound"
	"short-video-agent/application/services"
	"short-video-agent/config"
	"short-video-agent/infrastructure/adapters"
	"short-video-agent/infrastructure/gin_interface/controllers"
	"short-video-agent/middleware"
	"short-video-agent/mock"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	pipelineConfig, err := config.GetPipelineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get pipeline config")
	}

	gptConfig, err := config.GetGptConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gpt config")
	}

	lumaConfig, err := config.GetLumaConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get luma config")
	}

	whisperConfig, err := config.GetWhisperConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get whisper config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	databaseConfig, err := config.GetDatabaseConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database config")
	}

	authConfig, err := config.GetAuthConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get auth config")
	}

	zeroLogger := adapters.NewZerologWrapper(pipelineConfig.LogLevel)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	runPool, err := ants.NewPool(pipelineConfig.RunConcurrency, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create run pool")
	}
	defer runPool.Release()

	segmentPool, err := ants.NewPool(pipelineConfig.SegmentConcurrency, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create segment pool")
	}
	defer segmentPool.Release()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(s3Config.Region)},
	}))
	s3Client := s3.New(sess)

	var recordStore outbound.VideoRecordStorePort
	switch databaseConfig.VideoStore {
	case config.MysqlVideoStore:
		db, err := gorm.Open(mysql.Open(databaseConfig.DSN), &gorm.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		recordStore, err = adapters.NewGormVideoStore(zeroLogger, db)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate video records")
		}
	default:
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}
		dynamoAwsConfig := aws.NewConfig()
		if dynamoConfig.Endpoint != "" {
			dynamoAwsConfig = dynamoAwsConfig.WithEndpoint(dynamoConfig.Endpoint)
		}
		recordStore = adapters.NewDynamoVideoStore(zeroLogger, dynamodb.New(sess, dynamoAwsConfig), dynamoConfig)
	}

	contentFetcher := adapters.NewContentFetcher(zeroLogger, &http.Client{Timeout: 5 * time.Minute})

	scriptGenerator := adapters.NewOpenAIScriptGenerator(gptConfig, zeroLogger)
	generationJobs := adapters.NewLumaGenerationClient(contentFetcher, lumaConfig, zeroLogger)
	audioGenerator := adapters.NewElevenLabsAudioGenerator(contentFetcher, elevenLabsConfig, zeroLogger)
	assetDownloader := adapters.NewHTTPAssetDownloader(contentFetcher, zeroLogger)
	transcriber := adapters.NewWhisperTranscriber(whisperConfig, zeroLogger)
	mediaToolchain := adapters.NewFFmpegMediaToolchain(zeroLogger, transcriber, pipelineConfig.FFmpegPath, pipelineConfig.FFprobePath)
	videoPublisher := adapters.NewS3VideoPublisher(zeroLogger, s3Client, s3Config)

	mergePolicy, err := services.NewMergePolicy(pipelineConfig.MergePolicy, mediaToolchain)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create merge policy")
	}

	jobAwaiter := services.NewJobAwaiter(zeroLogger, generationJobs)

	segmentProcessor := services.NewSegmentProcessor(zeroLogger, scriptGenerator, generationJobs, jobAwaiter, audioGenerator, assetDownloader, mediaToolchain, mergePolicy, pipelineConfig)

	var videoCreatorPipeline inbound.VideoCreatorPipelinePort
	if eventsFile := os.Getenv("MOCK_EVENTS_FILE"); eventsFile != "" {
		videoCreatorPipeline, err = mock.NewReplayPipeline(eventsFile, mock.NewFileEventReader(zeroLogger), runPool, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load mock events")
		}
	} else {
		videoCreatorPipeline = services.NewVideoCreatorPipeline(zeroLogger, scriptGenerator, segmentProcessor, mediaToolchain, videoPublisher, recordStore, runPool, segmentPool, pipelineConfig)
	}

	videoAgentController := controllers.NewVideoAgentController(zeroLogger, videoCreatorPipeline)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(authConfig.JwksURL, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	router.Use(authHandler.AuthMiddleware())

	videoAgentController.RegisterRoutes(router)

	err = router.Run(pipelineConfig.ListenAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
