package api

import (
	"errors"
	"strconv"
	"time"

	"mahjongai/common/http"
	"mahjongai/common/log"
	"mahjongai/common/utils"
	"mahjongai/core/domain/entity"
	"mahjongai/core/domain/repository"
	"mahjongai/runtime/game"
	"mahjongai/runtime/game/engines/mahjong"
)

const (
	maxSimulateGames = 10000
	defaultPageSize  = 20
	maxPageSize      = 100
)

// Handler 存储为 nil 时对应接口返回 503
type Handler struct {
	Records          repository.GameRecordRepository
	Tally            repository.WinTallyRepository
	Publisher        mahjong.Pusher
	Options          mahjong.Options
	Searcher         *mahjong.Searcher
	Workers          int
	ProgressInterval time.Duration
	Limiter          *utils.RateLimiter // nil 不限流
}

// TallyView 统计加上各座位胜率
type TallyView struct {
	entity.WinTally
	WinRates     [mahjong.SeatCount]float64 `json:"winRates"`
	NoWinnerRate float64                    `json:"noWinnerRate"`
}

func newTallyView(t entity.WinTally) TallyView {
	view := TallyView{WinTally: t, NoWinnerRate: t.NoWinnerRate()}
	for seat := range view.WinRates {
		view.WinRates[seat] = t.WinRate(seat)
	}
	return view
}

// StatsHandler 跨批次累计的胜负统计
func (h *Handler) StatsHandler(c *http.Context) error {
	if h.Tally == nil {
		c.ServiceUnavailable("redis 未启用")
		return nil
	}
	tally, err := h.Tally.LoadTally(c.RequestContext())
	if err != nil {
		log.Error("读取胜负统计失败: %v", err)
		c.InternalServerError("读取胜负统计失败")
		return nil
	}
	c.Success(newTallyView(tally))
	return nil
}

// GameRecordHandler 按 gameID 查询对局记录（含事件，可用于回放）
func (h *Handler) GameRecordHandler(c *http.Context) error {
	if h.Records == nil {
		c.ServiceUnavailable("mongodb 未启用")
		return nil
	}
	gameID := c.GetParam("id")
	if gameID == "" {
		c.BadRequest("对局ID不能为空")
		return nil
	}
	record, err := h.Records.FindGameRecord(c.RequestContext(), gameID)
	if errors.Is(err, repository.ErrGameRecordNotFound) {
		c.NotFound("对局不存在")
		return nil
	}
	if err != nil {
		c.InternalServerError("查询对局失败")
		return nil
	}
	c.Success(record)
	return nil
}

// RecentGamesHandler ?winner=&limit=&offset=，不含事件
func (h *Handler) RecentGamesHandler(c *http.Context) error {
	if h.Records == nil {
		c.ServiceUnavailable("mongodb 未启用")
		return nil
	}
	winner, err1 := c.QueryInt("winner", -2)
	limit, err2 := c.QueryInt("limit", defaultPageSize)
	offset, err3 := c.QueryInt("offset", 0)
	if err := errors.Join(err1, err2, err3); err != nil || limit <= 0 || offset < 0 {
		c.BadRequest("分页参数错误")
		return nil
	}
	limit = min(limit, maxPageSize)

	records, err := h.Records.FindRecentGameRecords(c.RequestContext(), winner, limit, offset)
	if err != nil {
		c.InternalServerError("查询对局失败")
		return nil
	}
	c.Success(map[string]any{
		"games": records,
		"total": len(records),
	})
	return nil
}

type simulateRequest struct {
	Games   int   `json:"games" binding:"required,min=1"`
	Seed    int64 `json:"seed"`
	Workers int   `json:"workers"`
	Persist bool  `json:"persist"`
}

// SimulateHandler 同步跑一批 AI 对局并返回统计，请求取消时中止
func (h *Handler) SimulateHandler(c *http.Context) error {
	var req simulateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	if req.Games > maxSimulateGames {
		c.BadRequest("单次最多模拟 " + strconv.Itoa(maxSimulateGames) + " 局")
		return nil
	}
	workers := h.Workers
	if req.Workers > 0 {
		workers = req.Workers
	}

	worker := game.NewWorker(h.Options, h.Searcher, workers, h.ProgressInterval)
	defer worker.Close()
	if req.Seed != 0 {
		worker.Seed = req.Seed
	}
	worker.WinTallyRepository = h.Tally
	worker.Publisher = h.Publisher
	if req.Persist {
		worker.GameRecordRepository = h.Records
	}

	tally, err := worker.Run(c.RequestContext(), req.Games)
	if err != nil {
		c.InternalServerError("模拟被中断")
		return nil
	}
	c.Success(map[string]any{
		"seed":  worker.Seed,
		"tally": newTallyView(*tally),
	})
	return nil
}
