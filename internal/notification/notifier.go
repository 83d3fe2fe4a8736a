package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"raymarket-backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Event is the payload published on the realtime channel. The web and
// merchant dashboards subscribe to notify:user:<id>.
type Event struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Publisher writes notifications to the inbox table and, when Redis is
// configured, mirrors them on a per-user pub/sub channel.
type Publisher struct {
	db     *gorm.DB
	client *redis.Client
}

func NewPublisher(db *gorm.DB, redisAddr string) *Publisher {
	p := &Publisher{db: db}
	if redisAddr == "" {
		return p
	}

	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis unreachable at %s, realtime notifications disabled: %v", redisAddr, err)
		return p
	}

	p.client = client
	log.Printf("Redis connected at %s, realtime notifications enabled.", redisAddr)
	return p
}

// Notify is best-effort: a failed insert or publish is logged and never
// fails the request that triggered it.
func (p *Publisher) Notify(userID uint, typ, title, body string) {
	if p == nil || p.db == nil {
		return
	}

	n := models.Notification{
		UserID: userID,
		Type:   typ,
		Title:  title,
		Body:   body,
	}
	if err := p.db.Create(&n).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", userID, err)
		return
	}

	if p.client == nil {
		return
	}

	payload, err := json.Marshal(Event{Type: typ, Title: title, Body: body})
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	channel := fmt.Sprintf("notify:user:%d", userID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("failed to publish notification on %s: %v", channel, err)
	}
}
