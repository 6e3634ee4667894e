package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/x-xyz/ensapi/base/ctx"
	"github.com/x-xyz/ensapi/base/database/redisclient"
	"github.com/x-xyz/ensapi/base/goroutine"
	"github.com/x-xyz/ensapi/base/log"
	"github.com/x-xyz/ensapi/base/metrics"
	bValidator "github.com/x-xyz/ensapi/base/validator"
	mmiddleware "github.com/x-xyz/ensapi/middleware"
	"github.com/x-xyz/ensapi/service/ccip"
	"github.com/x-xyz/ensapi/service/chain"
	"github.com/x-xyz/ensapi/service/ens"
	"github.com/x-xyz/ensapi/service/redis"
	ens_delivery "github.com/x-xyz/ensapi/stores/ens/delivery/http"
	hc_delivery "github.com/x-xyz/ensapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/ensapi/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/ensapi/stores/healthcheck/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	log.SetDebug(viper.GetBool(`debug`))
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	defer log.Sync()

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware(metrics.New("http"))
	e.Use(middL.AddContext())
	e.Use(middL.ResponseLogger())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	context := ctx.Background()

	// init Redis service, optional
	var redisCache redis.Service
	if redisCacheURI := viper.GetString("redis_cache.uri"); redisCacheURI != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePwd := viper.GetString("redis_cache.password")
		redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
		redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
			PoolMultiplier: redisCachePoolMultiplier,
			Retry:          true,
		})
		redisCache = redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
			Src: redisCachePool,
		})
	} else {
		context.Warn("redis_cache.uri is empty, only the local cache is used")
	}

	mmiddleware.SetupCache(redisCache, viper.GetInt("http.cacheSizeMB"))

	// init chain service
	context.Info("init chain")
	chainService, rpc, err := chain.Dial(context, &chain.ClientCfg{
		RpcUrl:      viper.GetString("ens.rpcUrl"),
		Concurrency: viper.GetInt("ens.rpcConcurrency"),
		Retry: chain.RetryCfg{
			Attempts: viper.GetInt("ens.retry.attempts"),
			Start:    viper.GetDuration("ens.retry.start"),
			Limit:    viper.GetDuration("ens.retry.limit"),
		},
	})
	if err != nil {
		context.WithField("err", err).Panic("chain.Dial failed")
	}

	gateway := ccip.NewClient(&ccip.ClientCfg{
		HttpClient:       http.Client{},
		Timeout:          viper.GetDuration("ens.gatewayTimeout"),
		MaxResponseBytes: viper.GetInt64("ens.gatewayMaxResponseBytes"),
	}, metrics.New("ccip"))

	ensCfg, err := ens.ConfigFromViper(viper.Sub("ens"))
	if err != nil {
		context.WithField("err", err).Panic("invalid ens config")
	}
	engine := ens.NewEngine(chainService, gateway, metrics.New("ens"), ensCfg)
	ensService := ens.New(engine, redisCache, ens.CacheCfg{
		LocalTtl:    viper.GetDuration("ens.cache.localTtl"),
		RedisTtl:    viper.GetDuration("ens.cache.redisTtl"),
		LocalSizeMB: viper.GetInt("ens.cache.localSizeMB"),
	})
	context.WithField("registry", engine.RegistryAddress().Hex()).Info("ens engine ready")

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(rpc, redisCache)
	hcUsecase := hc_usecase.New(hcRepo)
	hc_delivery.New(e, hcUsecase)

	ens_delivery.New(e, ensService, viper.GetDuration("ens.cache.ownerTtl"))

	done := goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	})

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case ev := <-done:
		if ev != nil {
			log.Log().WithField("panic", ev.Panic).Error("server panicked")
		}
	}
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
