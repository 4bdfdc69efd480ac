package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mahjongai/common/config"
	"mahjongai/common/http"
	"mahjongai/common/log"
	"mahjongai/common/metrics"
	"mahjongai/common/utils"
	"mahjongai/core/container"
	"mahjongai/core/domain/entity"
	"mahjongai/core/infrastructure/message"
	"mahjongai/runtime/console"
	"mahjongai/runtime/game"
	"mahjongai/simulator/api"
)

// withSignals 收到中断或挂起信号时取消 ctx
func withSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	go func() {
		defer signal.Stop(c)
		select {
		case <-ctx.Done():
		case s := <-c:
			switch s {
			case syscall.SIGHUP:
				log.Info("挂起信号，停止运行")
			default:
				log.Info("中断信号，停止运行")
			}
			cancel()
		}
	}()
	return ctx, cancel
}

func startMetrics(port int) {
	if port <= 0 {
		return
	}
	go func() {
		log.Info("启动监控..., URL: http://localhost:%d/debug/statsviz/", port)
		if err := metrics.Serve(fmt.Sprintf("0.0.0.0:%d", port)); err != nil {
			log.Warn("监控服务启动失败: %v", err)
		}
	}()
}

func newWorker(conf *config.Config, c *container.SimulatorContainer) *game.Worker {
	worker := game.NewWorker(c.Options, c.Searcher, conf.Batch.Workers, conf.Batch.ProgressInterval)
	if conf.Batch.Seed != 0 {
		worker.Seed = conf.Batch.Seed
	}
	if conf.Batch.FlushSize > 0 {
		worker.FlushSize = conf.Batch.FlushSize
	}
	if conf.Batch.Persist {
		worker.GameRecordRepository = c.GameRecordRepository
	}
	worker.WinTallyRepository = c.WinTallyRepository
	worker.Publisher = c.Pusher()
	return worker
}

// RunBatch 跑 batch.games 局 AI 对局并打印统计
func RunBatch(ctx context.Context, conf *config.Config, out io.Writer) error {
	ctx, cancel := withSignals(ctx)
	defer cancel()

	c, err := container.NewSimulatorContainer(conf)
	if err != nil {
		return err
	}
	defer c.Close()
	startMetrics(conf.MetricPort)

	worker := newWorker(conf, c)
	defer worker.Close()
	log.Info("开始批量模拟: %d 局, 并发 %d, seed %d, 规则 %s/%s",
		conf.Batch.Games, worker.Workers, worker.Seed, c.Options.Decomposition, c.Options.ClaimPolicy)

	tally, err := worker.Run(ctx, conf.Batch.Games)
	fmt.Fprintln(out, console.RenderTally(tally))
	if err != nil {
		log.Warn("批量模拟提前结束: %v", err)
	}
	return nil
}

// RunPlay 交互模式，日志移到标准错误
func RunPlay(ctx context.Context, conf *config.Config, in io.Reader, out io.Writer) error {
	log.SetOutput(os.Stderr)
	ctx, cancel := withSignals(ctx)
	defer cancel()

	c, err := container.NewSimulatorContainer(conf)
	if err != nil {
		return err
	}
	defer c.Close()

	worker := newWorker(conf, c)
	defer worker.Close()
	if conf.Human.DecisionTimeout > 0 {
		fmt.Fprintf(out, "Decision timeout: %v\n", conf.Human.DecisionTimeout)
	}

	session := console.NewSession(worker, in, out, conf.Human.Seat)
	if err := session.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if tally := session.Tally(); tally.Games > 0 && c.WinTallyRepository != nil {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer saveCancel()
		if err := c.WinTallyRepository.AddTally(saveCtx, tally); err != nil {
			log.Warn("累加胜负统计失败: %v", err)
		}
	}
	return nil
}

// Serve 启动 HTTP 接口，直到收到信号
func Serve(ctx context.Context, conf *config.Config) error {
	c, err := container.NewSimulatorContainer(conf)
	if err != nil {
		return err
	}
	defer c.Close()
	startMetrics(conf.MetricPort)

	mode := "release"
	if conf.Log.Level == "debug" {
		mode = "debug"
	}
	server := http.NewHttpServer(
		http.WithPort(conf.HttpPort),
		http.WithMode(mode),
		http.WithTimeouts(10*time.Second, 5*time.Minute),
	)
	server.Use(
		http.CorsMiddleware(),
		http.RequestIDMiddleware(),
		http.LoggerMiddleware(),
	)
	var limiter *utils.RateLimiter
	if conf.Simulate.Rate > 0 {
		limiter = utils.NewRateLimiter(conf.Simulate.Rate, conf.Simulate.Burst)
	}
	api.RegisterRoutes(server, &api.Handler{
		Records:          c.GameRecordRepository,
		Tally:            c.WinTallyRepository,
		Publisher:        c.Pusher(),
		Options:          c.Options,
		Searcher:         c.Searcher,
		Workers:          conf.Batch.Workers,
		ProgressInterval: conf.Batch.ProgressInterval,
		Limiter:          limiter,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("启动 HTTP 服务器，端口: %d", conf.HttpPort)
		errCh <- server.Start()
	}()

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
	}

	ctx, cancel := withSignals(ctx)
	defer cancel()
	select {
	case <-ctx.Done():
		stop()
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务器启动失败: %w", err)
		}
		return nil
	}
}

// Watch 订阅 nats 上的对局事件并逐条输出，直到收到信号
func Watch(ctx context.Context, conf *config.Config, out io.Writer) error {
	if conf.Nats.URL == "" {
		return fmt.Errorf("nats.url 未配置")
	}
	sub, err := message.NewEventSubscriber(conf.Nats.URL)
	if err != nil {
		return fmt.Errorf("nats 连接失败: %w", err)
	}
	defer sub.Close()

	events := make(chan entity.GameEvent, 256)
	if err := sub.Subscribe(conf.Nats.Subject, func(e entity.GameEvent) {
		select {
		case events <- e:
		default:
		}
	}); err != nil {
		return err
	}
	log.Info("正在订阅 %s.>", conf.Nats.Subject)

	ctx, cancel := withSignals(ctx)
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			fmt.Fprintln(out, console.FormatEvent(e))
		}
	}
}
