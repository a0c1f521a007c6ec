package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"personal-blog/mail"
)

const headlineCount = 5

type NewsSource interface {
	Headlines(ctx context.Context, topic string, limit int) ([]Article, error)
}

type WeatherSource interface {
	Current(ctx context.Context, location string) (*Weather, error)
}

// Recipient is the subset of a subscriber the digest needs.
type Recipient struct {
	Email          string
	Name           string
	Interest       string
	ApproxLocation string
	WantsExtraInfo bool
}

type Composer struct {
	news    NewsSource
	weather WeatherSource
	logger  *slog.Logger
}

func NewComposer(news NewsSource, weather WeatherSource, logger *slog.Logger) *Composer {
	return &Composer{news: news, weather: weather, logger: logger}
}

// Compose builds the digest for r. News is required; weather is best effort
// and its section is left out when the lookup fails.
func (c *Composer) Compose(ctx context.Context, r Recipient) (mail.Message, error) {
	articles, err := c.news.Headlines(ctx, r.Interest, headlineCount)
	if err != nil {
		return mail.Message{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", r.Name)

	if r.ApproxLocation != "" {
		w, err := c.weather.Current(ctx, r.ApproxLocation)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping weather section", "error", err)
		} else {
			fmt.Fprintf(&b, "Weather in %s: %s, %.1f°C (%.1f°F), feels like %.1f°C, humidity %d%%.\n\n",
				w.Location, w.Condition, w.TempC, w.TempF, w.FeelsLikeC, w.HumidityPct)
		}
	}

	if len(articles) == 0 {
		fmt.Fprintf(&b, "There is no fresh %s news today.\n", r.Interest)
	} else {
		fmt.Fprintf(&b, "Today's %s news:\n\n", r.Interest)
		for i, a := range articles {
			fmt.Fprintf(&b, "%d. %s", i+1, a.Title)
			if a.Source.Name != "" {
				fmt.Fprintf(&b, " (%s)", a.Source.Name)
			}
			b.WriteString("\n")
			if a.Description != "" {
				fmt.Fprintf(&b, "   %s\n", a.Description)
			}
			if a.URL != "" {
				fmt.Fprintf(&b, "   %s\n", a.URL)
			}
		}
	}

	if r.WantsExtraInfo {
		b.WriteString("\nYou asked for extra updates: new posts and site features will be announced here too.\n")
	}
	b.WriteString("\nDo not respond to this email.\n")

	return mail.Message{
		To:      r.Email,
		Subject: fmt.Sprintf("Your daily %s digest", r.Interest),
		Body:    b.String(),
	}, nil
}
