package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"robosnap_server/config"
	"robosnap_server/errors"
	"robosnap_server/global"
	"robosnap_server/handlers"
	"robosnap_server/helpers"
	"robosnap_server/routes"
	"robosnap_server/services"
	"robosnap_server/socket"
	"robosnap_server/store"

	redis "github.com/go-redis/redis/v8"
	"github.com/gocql/gocql"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var configPath = flag.String("config", "./config.json", "path to config.json, empty for defaults and env only")

var logFiles []*os.File

func openLogs() {
	var (
		file *os.File
		err  error
	)

	global.InternalLogger, file, err = global.OpenLogFile(config.Config.Logs.Internal)
	errors.HandleFatalError(err)
	logFiles = append(logFiles, file)

	global.MonitorLogger, file, err = global.OpenLogFile(config.Config.Logs.Monitor)
	errors.HandleFatalError(err)
	logFiles = append(logFiles, file)

	global.WebsocketLogger, file, err = global.OpenLogFile(config.Config.Logs.Websocket)
	errors.HandleFatalError(err)
	logFiles = append(logFiles, file)
}

func main() {

	flag.Parse()

	var err error
	config.Config, err = config.Load(*configPath)
	errors.HandleFatalError(err)

	openLogs()
	defer func() {
		for _, file := range logFiles {
			errors.HandleBasicError(file.Close())
		}
	}()

	keys, err := helpers.LoadJWTKeys(config.Config.JWT.PrivateKey, config.Config.JWT.PublicKey)
	errors.HandleFatalError(err)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Config.Redis.Addr,
		Password: config.Config.Redis.Password,
		DB:       config.Config.Redis.DB,
	})
	defer redisClient.Close()
	errors.HandleFatalError(redisClient.Ping(global.Context).Err())

	cluster := gocql.NewCluster(config.Config.Scylla.Hosts...)
	cluster.Keyspace = config.Config.Scylla.Keyspace
	session, err := cluster.CreateSession()
	errors.HandleFatalError(err)
	defer session.Close()
	fmt.Println("ScyllaDB initialized")
	fmt.Printf("Keyspace: %s\n\n", cluster.Keyspace)

	errors.HandleFatalError(store.CreateChainTables(global.Context, session))

	minioClient, err := minio.New(config.Config.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Config.MinIO.User, config.Config.MinIO.Password, ""),
		Secure: config.Config.MinIO.Secure,
	})
	errors.HandleFatalError(err)

	objects, err := store.NewMinIOObjects(global.Context, minioClient, config.Config.MinIO.Bucket, config.Config.MinIO.Region, global.PhotoURLDuration)
	errors.HandleFatalError(err)

	records := store.NewRedisRecords(redisClient)

	s := services.New(&services.Deps{
		Records:  records,
		Sessions: records,
		Chains:   store.NewScyllaChains(session),
		Objects:  objects,
		Broker:   store.NewRedisBroker(redisClient),
		Keys:     keys,
		Default:  config.Config.Default,
	})

	errors.HandleFatalError(s.Identity.EnsureDefaultBot(global.Context))

	app := fiber.New(fiber.Config{
		JSONEncoder: jsoniter.Marshal,
		BodyLimit:   handlers.MaxPhotoSize + 1024*1024,
	})
	defer app.Shutdown()

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Output: global.MonitorLogger.Writer(),
	}))

	routes.SetRoutes(app, handlers.New(s, socket.NewHub(s)), s.Identity)

	fmt.Println("Starting server on port: " + config.Config.Port)
	log.Fatal(app.Listen(config.Config.Port))
}
