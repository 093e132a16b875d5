package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pauljones0/dealflow-hub/internal/models"
	"github.com/pauljones0/dealflow-hub/internal/util"
)

const (
	colorSmallDiscount = 3092790  // #2F3136
	colorGoodDiscount  = 16753920 // #FFA500
	colorBigDiscount   = 16711680 // #FF0000
	colorHugeDiscount  = 16776960 // #FFFF00

	discountThresholdGood = 40
	discountThresholdBig  = 60
	discountThresholdHuge = 80

	maxRetries       = 3
	maxDescription   = 300
	baseRetryBackoff = 250 * time.Millisecond
)

// Client announces featured deals to a Discord channel through a webhook.
type Client struct {
	webhookURL  string
	client      *http.Client
	rateLimiter *rate.Limiter
}

// New returns a Client. An empty webhookURL turns every call into a no-op.
func New(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		// Discord allows roughly 5 webhook requests per 2 seconds.
		rateLimiter: rate.NewLimiter(rate.Every(400*time.Millisecond), 5),
	}
}

// Enabled reports whether a webhook is configured.
func (c *Client) Enabled() bool {
	return c.webhookURL != ""
}

// Send posts an announcement for a newly featured deal and returns the
// Discord message ID.
func (c *Client) Send(ctx context.Context, deal models.Deal) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	return c.sendAndGetMessageID(ctx, formatDealToEmbed(deal))
}

// Update edits a previous announcement to reflect the deal's current state.
func (c *Client) Update(ctx context.Context, messageID string, deal models.Deal) error {
	if !c.Enabled() || messageID == "" {
		return nil
	}
	return c.updateDiscordMessage(ctx, messageID, formatDealToEmbed(deal))
}

type discordWebhookPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbedThumbnail struct {
	URL string `json:"url,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type discordEmbed struct {
	Title       string                `json:"title,omitempty"`
	Description string                `json:"description,omitempty"`
	URL         string                `json:"url,omitempty"`
	Timestamp   string                `json:"timestamp,omitempty"`
	Color       int                   `json:"color,omitempty"`
	Thumbnail   discordEmbedThumbnail `json:"thumbnail,omitempty"`
	Fields      []discordEmbedField   `json:"fields,omitempty"`
	Footer      discordEmbedFooter    `json:"footer,omitempty"`
}

type discordMessageResponse struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
}

func formatDealToEmbed(deal models.Deal) discordEmbed {
	discount := deal.DiscountPercentage()

	description := deal.Description
	if r := []rune(description); len(r) > maxDescription {
		description = string(r[:maxDescription]) + "..."
	}

	fields := []discordEmbedField{
		{Name: "Price", Value: fmt.Sprintf("%s ~~%s~~", models.FormatPrice(deal.DealPrice), models.FormatPrice(deal.OriginalPrice)), Inline: true},
		{Name: "Category", Value: deal.Category, Inline: true},
		{Name: "Votes", Value: strconv.Itoa(deal.Votes), Inline: true},
	}
	if domain := util.GetDomain(deal.AffiliateLink); domain != "" {
		fields = append(fields, discordEmbedField{Name: "Merchant", Value: domain, Inline: true})
	}

	var isoTimestamp string
	if !deal.PostedDate.IsZero() {
		isoTimestamp = deal.PostedDate.Format(time.RFC3339)
	}

	var footer discordEmbedFooter
	if !deal.ExpiryDate.IsZero() {
		footer.Text = "Ends " + deal.ExpiryDate.UTC().Format("Jan 2, 2006")
	}

	return discordEmbed{
		Title:       fmt.Sprintf("%s (-%d%%)", deal.Title, discount),
		URL:         deal.AffiliateLink,
		Description: description,
		Timestamp:   isoTimestamp,
		Color:       getDiscountColor(discount),
		Thumbnail:   discordEmbedThumbnail{URL: deal.ImageURL},
		Fields:      fields,
		Footer:      footer,
	}
}

func getDiscountColor(discount int64) int {
	switch {
	case discount >= discountThresholdHuge:
		return colorHugeDiscount
	case discount >= discountThresholdBig:
		return colorBigDiscount
	case discount >= discountThresholdGood:
		return colorGoodDiscount
	default:
		return colorSmallDiscount
	}
}

// retryBackoff returns how long to wait before retrying resp, or zero when
// the response should not be retried.
func retryBackoff(resp *http.Response, attempt int) time.Duration {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if secs, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
		return time.Duration(1<<attempt) * baseRetryBackoff
	case resp.StatusCode >= 500:
		return time.Duration(1<<attempt) * baseRetryBackoff
	default:
		return 0
	}
}

// do sends payload with rate limiting and retries on 429 and 5xx responses.
// A 2xx response body is returned.
func (c *Client) do(ctx context.Context, method, target string, payload discordWebhookPayload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = util.RetryWithBackoff(ctx, maxRetries, func(attempt int) error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return util.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payloadBytes))
		if err != nil {
			return util.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		bodyBytes, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = bodyBytes
			return nil
		}

		statusErr := fmt.Errorf("discord status: %s, body: %s", resp.Status, string(bodyBytes))
		if backoff := retryBackoff(resp, attempt); backoff > 0 {
			return util.RetryAfter(statusErr, backoff)
		}
		return util.Permanent(statusErr)
	})
	return body, err
}

func (c *Client) sendAndGetMessageID(ctx context.Context, embed discordEmbed) (string, error) {
	parsedURL, err := url.Parse(c.webhookURL)
	if err != nil {
		return "", err
	}
	q := parsedURL.Query()
	q.Set("wait", "true")
	parsedURL.RawQuery = q.Encode()

	bodyBytes, err := c.do(ctx, http.MethodPost, parsedURL.String(), discordWebhookPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return "", err
	}
	var msgResponse discordMessageResponse
	if err := json.Unmarshal(bodyBytes, &msgResponse); err != nil {
		return "", err
	}
	return msgResponse.ID, nil
}

func (c *Client) updateDiscordMessage(ctx context.Context, messageID string, embed discordEmbed) error {
	parsedBaseURL, err := url.Parse(c.webhookURL)
	if err != nil {
		return err
	}
	finalPatchURL := fmt.Sprintf("%s://%s%s/messages/%s", parsedBaseURL.Scheme, parsedBaseURL.Host, parsedBaseURL.Path, messageID)

	if _, err := c.do(ctx, http.MethodPatch, finalPatchURL, discordWebhookPayload{Embeds: []discordEmbed{embed}}); err != nil {
		return fmt.Errorf("discord update failed: %w", err)
	}
	return nil
}
