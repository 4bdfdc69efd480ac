package message

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"mahjongai/common/log"
	"mahjongai/core/domain/entity"
)

var ErrNotConnected = errors.New("nats not connected")

const writeChanSize = 1024

// EventPublisher 把对局事件发布到 <subject>.<eventType>
// Push 不阻塞对局：写队列满时丢弃并计数
type EventPublisher struct {
	conn      *nats.Conn
	subject   string
	writeChan chan *nats.Msg
	dropped   atomic.Int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewEventPublisher(url, subject string) (*EventPublisher, error) {
	log.Info("nats 发布端正在连接, url:%s", url)
	conn, err := nats.Connect(url, nats.Name("mahjong-simulator"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, err
	}
	p := &EventPublisher{
		conn:      conn,
		subject:   subject,
		writeChan: make(chan *nats.Msg, writeChanSize),
	}
	p.wg.Add(1)
	go p.writeChanMessage()
	return p, nil
}

// EventSubject 某类事件的发布主题
func EventSubject(subject, eventType string) string {
	return subject + "." + eventType
}

func (p *EventPublisher) Push(event entity.GameEvent) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Warn("对局事件序列化失败: %v", err)
		return
	}
	msg := &nats.Msg{Subject: EventSubject(p.subject, event.EventType), Data: data}
	select {
	case p.writeChan <- msg:
	default:
		p.dropped.Add(1)
	}
}

func (p *EventPublisher) writeChanMessage() {
	defer p.wg.Done()
	for msg := range p.writeChan {
		if !p.conn.IsConnected() {
			p.dropped.Add(1)
			continue
		}
		if err := p.conn.PublishMsg(msg); err != nil {
			log.Warn("nats 发布失败, subject:%s, err:%v", msg.Subject, err)
		}
	}
}

func (p *EventPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Close 发送完队列中的事件后断开
func (p *EventPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.writeChan)
		p.mu.Unlock()
		p.wg.Wait()
		err = p.conn.Flush()
		p.conn.Close()
		if n := p.dropped.Load(); n > 0 {
			log.Warn("nats 发布端丢弃事件 %d 条", n)
		}
		log.Info("NATS 连接已关闭")
	})
	return err
}

// EventSubscriber 订阅对局事件流
type EventSubscriber struct {
	conn *nats.Conn
	sub  *nats.Subscription
}

func NewEventSubscriber(url string) (*EventSubscriber, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &EventSubscriber{conn: conn}, nil
}

// Subscribe 订阅 <subject>.> 下的全部事件，解析失败的消息跳过
func (s *EventSubscriber) Subscribe(subject string, handler func(entity.GameEvent)) error {
	if s.conn == nil || !s.conn.IsConnected() {
		return ErrNotConnected
	}
	sub, err := s.conn.Subscribe(subject+".>", func(msg *nats.Msg) {
		var event entity.GameEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			log.Warn("对局事件解析错误: %v", err)
			return
		}
		handler(event)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

func (s *EventSubscriber) Close() error {
	if s.sub != nil {
		_ = s.sub.Unsubscribe()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
