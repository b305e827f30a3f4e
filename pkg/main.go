package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	pkg "git.solsynth.dev/hypernet/community/pkg/internal"
	"git.solsynth.dev/hypernet/community/pkg/internal/cache"
	"git.solsynth.dev/hypernet/community/pkg/internal/database"
	"git.solsynth.dev/hypernet/community/pkg/internal/gap"
	"git.solsynth.dev/hypernet/community/pkg/internal/grpc"
	"git.solsynth.dev/hypernet/community/pkg/internal/http"
	"git.solsynth.dev/hypernet/community/pkg/internal/services"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString("  ____                                      _ _\n / ___|___  _ __ ___  _ __ ___  _   _ _ __ (_) |_ _   _\n| |   / _ \\| '_ ` _ \\| '_ ` _ \\| | | | '_ \\| | __| | | |\n| |__| (_) | | | | | | | | | | | |_| | | | | | |_| |_| |\n \\____\\___/|_| |_| |_|_| |_| |_|\\__,_|_| |_|_|\\__|\\__, |\n                                                  |___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("Hypernet.Community"), pkg.AppVersion)
	fmt.Printf("The community posting service in Hypernet\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded.")
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("community")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	if viper.GetBool("debug.verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Connect to nats
	if err := gap.InitializeToNats(); err != nil {
		log.Error().Err(err).Msg("An error occurred when connecting to nats, events will not be broadcast...")
	}

	// Initialize cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	if err := services.EnsureOfficialCommunities(); err != nil {
		log.Error().Err(err).Msg("An error occurred when seeding official communities.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 1m", services.CollectStoreMetrics)
	quartz.Start()

	// Server
	server := http.NewServer()
	go server.Listen()

	grpcServer := grpc.NewGrpc()
	grpcServer.MarkServing()
	go func() {
		if err := grpcServer.Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	grpcServer.Shutdown()
	if err := server.Shutdown(); err != nil {
		log.Error().Err(err).Msg("An error occurred when shutting down server...")
	}
	gap.Shutdown()
}
