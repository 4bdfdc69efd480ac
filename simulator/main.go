package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"mahjongai/common/config"
	"mahjongai/common/log"
	"mahjongai/simulator/app"
)

var (
	configFile string
	logLevel   string

	games   int
	workers int
	seed    int64
	persist bool

	seat    int
	timeout string
)

var rootCmd = &cobra.Command{
	Use:   "simulator",
	Short: "四人简化麻将模拟器",
	Long:  `四人简化麻将模拟器：批量 AI 对局统计、控制台人机对局与 HTTP 接口`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(configFile); err != nil {
			return err
		}
		conf := config.Current()
		level := conf.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		log.InitLog(conf.AppName, level)
		log.Debug("配置文件: %+v", *conf)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return batchCmd.RunE(cmd, args)
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "批量运行 AI 对局并统计胜率",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := *config.Current()
		if cmd.Flags().Changed("games") {
			conf.Batch.Games = games
		}
		if cmd.Flags().Changed("workers") {
			conf.Batch.Workers = workers
		}
		if cmd.Flags().Changed("seed") {
			conf.Batch.Seed = seed
		}
		if cmd.Flags().Changed("persist") {
			conf.Batch.Persist = persist
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		return app.RunBatch(context.Background(), &conf, os.Stdout)
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "在控制台与三个 AI 对局",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := *config.Current()
		if cmd.Flags().Changed("seat") {
			conf.Human.Seat = seat
		}
		if cmd.Flags().Changed("timeout") {
			d, err := parseTimeout(timeout)
			if err != nil {
				return err
			}
			conf.Human.DecisionTimeout = d
		}
		if err := conf.Validate(); err != nil {
			return err
		}
		return app.RunPlay(context.Background(), &conf, os.Stdin, os.Stdout)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 接口：统计、对局回放与远程模拟",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Serve(context.Background(), config.Current())
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "订阅 nats 上的对局事件流",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Watch(context.Background(), config.Current(), os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "configFile", "", "resource file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "logLevel", "", "debug / info / warn / error")

	for _, cmd := range []*cobra.Command{rootCmd, batchCmd} {
		cmd.Flags().IntVar(&games, "games", 1000, "对局数")
		cmd.Flags().IntVar(&workers, "workers", 4, "并发数")
		cmd.Flags().Int64Var(&seed, "seed", 0, "随机种子，0 使用当前时间")
		cmd.Flags().BoolVar(&persist, "persist", false, "保存对局记录到 mongodb")
	}
	playCmd.Flags().IntVar(&seat, "seat", 0, "人类玩家座位 0-3")
	playCmd.Flags().StringVar(&timeout, "timeout", "", "单次决策时限，例如 30s")

	rootCmd.AddCommand(batchCmd, playCmd, serveCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("error happen: %v", err)
		os.Exit(1)
	}
}
