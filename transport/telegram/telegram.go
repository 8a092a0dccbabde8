// Package telegram implements the chat transport over the Telegram Bot API
// using long polling. Only the handful of methods the bot actually calls are
// wrapped; this is not a general API client.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/logcolors"
	"groovia-bot-go/transport"
)

const (
	defaultAPIBase = "https://api.telegram.org"

	// Long-poll wait on getUpdates; the HTTP timeout must exceed it.
	pollTimeoutSecs = 30
	defaultTimeout  = 40 * time.Second
)

// Options configures a Bot. BaseURL and HTTPClient exist for tests.
type Options struct {
	Token      string
	BaseURL    string
	HTTPClient *http.Client
}

// Bot is a long-polling Telegram transport. It satisfies transport.Transport.
type Bot struct {
	token   string
	baseURL string
	client  *http.Client
	offset  int64
}

// New creates a Bot.
func New(opts Options) *Bot {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIBase
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Bot{token: opts.Token, baseURL: baseURL, client: client}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (b *Bot) call(ctx context.Context, method string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	requestURL := b.baseURL + "/bot" + b.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, method, out)
}

func decodeAPIResponse(r io.Reader, method string, out any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed: %s", method, envelope.Description)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to parse %s result: %w", method, err)
		}
	}
	return nil
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

func markupFor(controls [][]transport.Control) *replyMarkup {
	if len(controls) == 0 {
		return nil
	}
	rm := &replyMarkup{}
	for _, row := range controls {
		var buttons []inlineButton
		for _, c := range row {
			buttons = append(buttons, inlineButton{Text: c.Label, CallbackData: c.Data, URL: c.URL})
		}
		rm.InlineKeyboard = append(rm.InlineKeyboard, buttons)
	}
	return rm
}

type sentMessage struct {
	MessageID int64 `json:"message_id"`
}

// Send delivers a new message, as a photo-with-caption when an image is set.
func (b *Bot) Send(ctx context.Context, chatID int64, msg transport.Message) (int64, error) {
	var sent sentMessage
	var err error
	if msg.ImageURL != "" {
		err = b.call(ctx, "sendPhoto", map[string]any{
			"chat_id":      chatID,
			"photo":        msg.ImageURL,
			"caption":      msg.Text,
			"parse_mode":   "MarkdownV2",
			"reply_markup": markupFor(msg.Controls),
		}, &sent)
	} else {
		err = b.call(ctx, "sendMessage", map[string]any{
			"chat_id":      chatID,
			"text":         msg.Text,
			"parse_mode":   "MarkdownV2",
			"reply_markup": markupFor(msg.Controls),
		}, &sent)
	}
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Edit replaces an existing message's text and controls.
func (b *Bot) Edit(ctx context.Context, chatID, messageID int64, msg transport.Message) error {
	return b.call(ctx, "editMessageText", map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"text":         msg.Text,
		"parse_mode":   "MarkdownV2",
		"reply_markup": markupFor(msg.Controls),
	}, nil)
}

// EditControls replaces only the control grid of an existing message.
func (b *Bot) EditControls(ctx context.Context, chatID, messageID int64, controls [][]transport.Control) error {
	return b.call(ctx, "editMessageReplyMarkup", map[string]any{
		"chat_id":      chatID,
		"message_id":   messageID,
		"reply_markup": markupFor(controls),
	}, nil)
}

// Delete removes a message.
func (b *Bot) Delete(ctx context.Context, chatID, messageID int64) error {
	return b.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

// Answer acknowledges a control tap.
func (b *Bot) Answer(ctx context.Context, callbackID, notice string) error {
	return b.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
		"text":              notice,
	}, nil)
}

// SendAudio uploads an audio attachment as multipart form data.
func (b *Bot) SendAudio(ctx context.Context, chatID int64, audio transport.Audio) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"chat_id":   strconv.FormatInt(chatID, 10),
		"title":     audio.Title,
		"performer": audio.Performer,
		"caption":   audio.Caption,
	}
	if audio.DurationSeconds > 0 {
		fields["duration"] = strconv.Itoa(audio.DurationSeconds)
	}
	if audio.ThumbURL != "" {
		fields["thumbnail"] = audio.ThumbURL
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to build upload form: %w", err)
		}
	}

	part, err := form.CreateFormFile("audio", audio.FileName)
	if err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to build upload form: %w", err)
	}

	requestURL := b.baseURL + "/bot" + b.token + "/sendAudio"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeAPIResponse(resp.Body, "sendAudio", nil)
}

type tgUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type tgChat struct {
	ID int64 `json:"id"`
}

type tgMessage struct {
	MessageID int64   `json:"message_id"`
	From      *tgUser `json:"from"`
	Chat      tgChat  `json:"chat"`
	Text      string  `json:"text"`
}

type tgCallback struct {
	ID      string     `json:"id"`
	From    tgUser     `json:"from"`
	Message *tgMessage `json:"message"`
	Data    string     `json:"data"`
}

type tgUpdate struct {
	UpdateID int64       `json:"update_id"`
	Message  *tgMessage  `json:"message"`
	Callback *tgCallback `json:"callback_query"`
}

// Updates long-polls getUpdates until ctx is cancelled and delivers inbound
// events on the returned channel. The channel is closed on return.
func (b *Bot) Updates(ctx context.Context) <-chan transport.Update {
	out := make(chan transport.Update)
	go func() {
		defer close(out)
		for {
			if ctx.Err() != nil {
				return
			}

			var batch []tgUpdate
			err := b.call(ctx, "getUpdates", map[string]any{
				"offset":          b.offset,
				"timeout":         pollTimeoutSecs,
				"allowed_updates": []string{"message", "callback_query"},
			}, &batch)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warnf("%s Poll failed, backing off: %v", logcolors.LogTransport, err)
				select {
				case <-time.After(3 * time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			for _, raw := range batch {
				if raw.UpdateID >= b.offset {
					b.offset = raw.UpdateID + 1
				}
				update, ok := convert(raw)
				if !ok {
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// displayName is what the bot greets people by: the first name when the
// profile has one, otherwise the handle.
func displayName(u tgUser) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

func convert(raw tgUpdate) (transport.Update, bool) {
	switch {
	case raw.Callback != nil:
		update := transport.Update{
			UserID:       raw.Callback.From.ID,
			UserName:     displayName(raw.Callback.From),
			CallbackID:   raw.Callback.ID,
			CallbackData: raw.Callback.Data,
		}
		if raw.Callback.Message != nil {
			update.ChatID = raw.Callback.Message.Chat.ID
			update.MessageID = raw.Callback.Message.MessageID
		}
		return update, true

	case raw.Message != nil && raw.Message.From != nil:
		update := transport.Update{
			UserID:    raw.Message.From.ID,
			UserName:  displayName(*raw.Message.From),
			ChatID:    raw.Message.Chat.ID,
			MessageID: raw.Message.MessageID,
			Text:      raw.Message.Text,
		}
		if cmd, ok := parseCommand(raw.Message.Text); ok {
			update.Command = cmd
		}
		return update, true
	}
	return transport.Update{}, false
}

// parseCommand extracts "start" from "/start" or "/start@SomeBot".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	word := strings.Fields(text[1:])
	if len(word) == 0 || word[0] == "" {
		return "", false
	}
	cmd, _, _ := strings.Cut(word[0], "@")
	return strings.ToLower(cmd), true
}
