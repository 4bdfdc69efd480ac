package game

import (
	"fmt"
	"sync"

	"mahjongai/common/log"
	"mahjongai/runtime/game/engines"
	"mahjongai/runtime/game/engines/mahjong"
)

// RoomManager 管理进行中的对局，一局一个引擎
type RoomManager struct {
	rooms map[string]engines.Engine // gameID -> Engine
	mu    sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]engines.Engine),
	}
}

// AddRoom 登记对局，gameID 重复时拒绝
func (rm *RoomManager) AddRoom(engine engines.Engine) error {
	if engine == nil {
		return fmt.Errorf("引擎不能为空")
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()

	id := engine.GetGameID()
	if _, exists := rm.rooms[id]; exists {
		return fmt.Errorf("对局 %s 已存在", id)
	}
	rm.rooms[id] = engine
	log.Debug("RoomManager 登记对局 %s", id)
	return nil
}

func (rm *RoomManager) GetRoom(gameID string) (engines.Engine, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	engine, exists := rm.rooms[gameID]
	return engine, exists
}

// DeleteRoom 注销并关闭引擎
func (rm *RoomManager) DeleteRoom(gameID string) error {
	rm.mu.Lock()
	engine, exists := rm.rooms[gameID]
	if !exists {
		rm.mu.Unlock()
		return fmt.Errorf("对局 %s 不存在", gameID)
	}
	delete(rm.rooms, gameID)
	rm.mu.Unlock()

	engine.Close()
	log.Debug("RoomManager 注销对局 %s", gameID)
	return nil
}

// GetStats 对局数与在座人数，供 Monitor 使用
func (rm *RoomManager) GetStats() (gameCount int, playerCount int) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	gameCount = len(rm.rooms)
	return gameCount, gameCount * mahjong.SeatCount
}

// GetAllRooms 返回副本
func (rm *RoomManager) GetAllRooms() []engines.Engine {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	rooms := make([]engines.Engine, 0, len(rm.rooms))
	for _, engine := range rm.rooms {
		rooms = append(rooms, engine)
	}
	return rooms
}
