package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"go-travel-planner/internal/metrics"
	"go-travel-planner/internal/model"
	"go-travel-planner/internal/util"
	"go-travel-planner/pkg/apierror"
)

const (
	maxChatMessageLength = 2000
	chatHistoryLimit     = 200
)

type Intent string

const (
	IntentTripList Intent = "trip_list"
	IntentWeather  Intent = "weather"
	IntentFood     Intent = "food"
	IntentClothing Intent = "clothing"
	IntentGreeting Intent = "greeting"
	IntentOther    Intent = "other"
)

// Checked in order; the first intent with a matching keyword wins. Keywords
// of four or more letters also match as word prefixes ("restaurantes").
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentTripList, []string{"viajes", "tengo", "lista", "trips", "list"}},
	{IntentWeather, []string{"clima", "tiempo", "weather", "temperature", "rain"}},
	{IntentFood, []string{"comer", "restaurante", "cena", "eat", "restaurant", "dinner", "lunch", "food"}},
	{IntentClothing, []string{"ropa", "maleta", "clothes", "pack", "packing", "luggage", "wear"}},
	{IntentGreeting, []string{"hola", "hello", "hi", "hey"}},
}

// ClassifyIntent maps a free-text message to a coarse intent by keyword.
func ClassifyIntent(message string) Intent {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	for _, entry := range intentKeywords {
		for _, kw := range entry.keywords {
			for _, w := range words {
				if w == kw || (len(kw) >= 4 && strings.HasPrefix(w, kw)) {
					return entry.intent
				}
			}
		}
	}
	return IntentOther
}

type MessageStore interface {
	Create(ctx context.Context, m model.Message) (model.Message, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]model.Message, error)
}

type TripLister interface {
	ListByOwner(ctx context.Context, userID string) ([]model.Trip, error)
}

type ChatService struct {
	messages MessageStore
	trips    TripLister
	delay    time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewChatService(messages MessageStore, trips TripLister, delay time.Duration) *ChatService {
	return &ChatService{
		messages: messages,
		trips:    trips,
		delay:    delay,
		now:      func() time.Time { return time.Now().UTC() },
		sleep:    sleepContext,
	}
}

func (s *ChatService) Send(ctx context.Context, userID string, text string) (model.Message, error) {
	text = util.CleanText(text, true)
	if text == "" {
		return model.Message{}, apierror.Validation("message is required", "message")
	}
	if len([]rune(text)) > maxChatMessageLength {
		return model.Message{}, apierror.Validation("message is too long", "message")
	}

	if _, err := s.messages.Create(ctx, model.Message{
		UserID:    userID,
		Sender:    model.SenderUser,
		Text:      text,
		CreatedAt: s.now(),
	}); err != nil {
		return model.Message{}, err
	}

	if err := s.sleep(ctx, s.delay); err != nil {
		return model.Message{}, err
	}

	intent := ClassifyIntent(text)
	metrics.ChatMessagesTotal.WithLabelValues(model.SenderUser, string(intent)).Inc()

	trips, err := s.trips.ListByOwner(ctx, userID)
	if err != nil {
		return model.Message{}, err
	}

	reply, err := s.messages.Create(ctx, model.Message{
		UserID:    userID,
		Sender:    model.SenderAssistant,
		Text:      composeReply(intent, trips),
		CreatedAt: s.now(),
	})
	if err != nil {
		return model.Message{}, err
	}
	metrics.ChatMessagesTotal.WithLabelValues(model.SenderAssistant, string(intent)).Inc()

	return reply, nil
}

func (s *ChatService) History(ctx context.Context, userID string) ([]model.Message, error) {
	return s.messages.ListByUser(ctx, userID, chatHistoryLimit)
}

// composeReply answers about the newest trip; trips are newest first.
func composeReply(intent Intent, trips []model.Trip) string {
	if intent == IntentTripList {
		if len(trips) == 0 {
			return "You have no trips yet. Head to the dashboard to design your first one."
		}
		names := make([]string, 0, len(trips))
		for _, t := range trips {
			state := "draft"
			if t.Status == model.TripStatusPaid {
				state = "confirmed"
			}
			names = append(names, fmt.Sprintf("%s (%s)", t.Destination, state))
		}
		return fmt.Sprintf("I found these trips in your account: %s. Which one would you like to talk about?", strings.Join(names, ", "))
	}

	if len(trips) == 0 {
		return "You don't have any trips yet. Design one and I can give you recommendations."
	}

	latest := trips[0]
	dest := latest.Destination

	var reply string
	switch intent {
	case IntentWeather:
		reply = fmt.Sprintf("For your trip to %s, expect excellent weather, around 22°C on average.", dest)
	case IntentFood:
		reply = fmt.Sprintf("In %s I recommend booking in the historic centre. There are great options for every budget.", dest)
	case IntentClothing:
		reply = fmt.Sprintf("Pack comfortable but smart clothes for %s.", dest)
	case IntentGreeting:
		reply = fmt.Sprintf("Hello! I see you're planning to visit %s. What would you like to know?", dest)
	default:
		reply = fmt.Sprintf("Interesting question about %s. I can help best with weather, restaurants and what to pack.", dest)
	}

	if latest.Status == model.TripStatusDraft {
		reply += " (Note: remember to complete the payment to confirm your booking.)"
	}
	return reply
}
