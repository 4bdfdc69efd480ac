package realtime

import (
	"context"
	"strconv"

	"mahjongai/common/database"
	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
	"mahjongai/core/domain/repository"
)

const winTallyKey = "mahjong:wins"

const (
	fieldGames    = "games"
	fieldNoWinner = "no_winner"
	fieldFailures = "failures"
	fieldSeat     = "seat:"
)

// addTallyScript 一次性累加全部字段
const addTallyScript = `
for i = 1, #ARGV, 2 do
	redis.call('HINCRBY', KEYS[1], ARGV[i], ARGV[i + 1])
end
return redis.call('HGET', KEYS[1], 'games')
`

// RedisWinTallyRepository 跨进程累计的胜负统计，存于一个 hash
type RedisWinTallyRepository struct {
	redis *database.RedisManager
	key   string
}

func NewRedisWinTallyRepository(redis *database.RedisManager) repository.WinTallyRepository {
	return &RedisWinTallyRepository{redis: redis, key: winTallyKey}
}

func (r *RedisWinTallyRepository) AddTally(ctx context.Context, tally entity.WinTally) error {
	if tally.Games == 0 {
		return nil
	}
	args := []any{
		fieldGames, tally.Games,
		fieldNoWinner, tally.NoWinner,
		fieldFailures, tally.Failures,
	}
	for seat, wins := range tally.Wins {
		args = append(args, fieldSeat+strconv.Itoa(seat), wins)
	}
	if _, err := r.redis.EvalScript(ctx, "add_win_tally", addTallyScript, []string{r.key}, args...); err != nil {
		log.Error("累加胜负统计失败: %v", err)
		return repository.ErrRedis
	}
	return nil
}

func (r *RedisWinTallyRepository) LoadTally(ctx context.Context) (entity.WinTally, error) {
	var tally entity.WinTally
	fields, err := r.redis.HGetAll(ctx, r.key)
	if err != nil {
		log.Error("读取胜负统计失败: %v", err)
		return tally, repository.ErrRedis
	}
	tally.Games = atoi(fields[fieldGames])
	tally.NoWinner = atoi(fields[fieldNoWinner])
	tally.Failures = atoi(fields[fieldFailures])
	for seat := range tally.Wins {
		tally.Wins[seat] = atoi(fields[fieldSeat+strconv.Itoa(seat)])
	}
	return tally, nil
}

func (r *RedisWinTallyRepository) ResetTally(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.key); err != nil {
		log.Error("清空胜负统计失败: %v", err)
		return repository.ErrRedis
	}
	return nil
}

// atoi 缺失或非法的字段按 0 处理
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
