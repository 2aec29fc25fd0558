package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type PublishResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		MediaID          string `json:"MediaId"`
		Status           string `json:"Status"`
		TranscriptionURL string `json:"TranscriptionURL"`
		WordsCount       int    `json:"WordsCount"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

type StatusResponse struct {
	Code   int    `json:"Code"`
	Status string `json:"Status"`
	Data   struct {
		AudioURL             string `json:"AudioURL"`
		Status               string `json:"Status"`
		TranscriptionTextURL string `json:"TranscriptionTextURL"`
		WordsCount           int    `json:"WordsCount"`
	} `json:"Data"`
	Reason string `json:"Reason,omitempty"`
}

// Transcribe returns the raw transcript of the recording at audioURL.
func (c *Client) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if c.mock {
		return MockTranscript, nil
	}
	if c.baseURL == "" {
		return "", ErrNotConfigured
	}
	log := c.log.WithField("audio_url", audioURL)

	mediaID, readyURL, err := c.publish(ctx, audioURL)
	if err != nil {
		return "", err
	}
	if readyURL != "" {
		return c.download(ctx, readyURL)
	}
	log.WithField("media_id", mediaID).Debug("transcription queued")

	finalURL, err := c.poll(ctx, mediaID)
	if err != nil {
		return "", err
	}
	log.WithField("final_url", finalURL).Info("download final transcript")
	return c.download(ctx, finalURL)
}

func (c *Client) publish(ctx context.Context, audioURL string) (string, string, error) {
	endpoint := strings.TrimRight(c.baseURL, "/") + "/transcribe"
	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	_ = w.WriteField("recordingLink", audioURL)
	_ = w.WriteField("language", "en")
	_ = w.Close()
	body := b.Bytes()

	var resp PublishResponse
	err := c.doJSON(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	}, &resp)
	if err != nil {
		return "", "", err
	}
	if resp.Code != http.StatusOK {
		return "", "", fmt.Errorf("transcribe publish error: code=%d reason=%s", resp.Code, resp.Reason)
	}
	if resp.Data.TranscriptionURL != "" && strings.EqualFold(resp.Data.Status, "success") {
		return "", resp.Data.TranscriptionURL, nil
	}
	if resp.Data.MediaID == "" {
		return "", "", fmt.Errorf("transcribe publish error: no media id")
	}
	return resp.Data.MediaID, "", nil
}

func (c *Client) poll(ctx context.Context, mediaID string) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.baseURL, "/") + "/getstatus")
	if err != nil {
		return "", fmt.Errorf("status url: %w", err)
	}
	q := u.Query()
	q.Set("mediaId", mediaID)
	u.RawQuery = q.Encode()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for i := 0; i < c.maxPolls; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
		var s StatusResponse
		err := c.doJSON(ctx, func() (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		}, &s)
		if err != nil {
			c.log.WithError(err).Warn("status check failed")
			continue
		}
		switch s.Data.Status {
		case "Success":
			return s.Data.TranscriptionTextURL, nil
		case "Queued", "Processing":
			continue
		case "Failed":
			return "", fmt.Errorf("transcription failed: %s", s.Reason)
		}
	}
	return "", fmt.Errorf("transcription timeout after %d polls", c.maxPolls)
}

func (c *Client) download(ctx context.Context, textURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, textURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("download failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	return strings.TrimSpace(string(b)), nil
}

// doJSON sends the request built by newReq, retrying transport errors and 5xx
// responses with exponential backoff. 4xx responses are not retried.
func (c *Client) doJSON(ctx context.Context, newReq func() (*http.Request, error), target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.timeout

	op := func() error {
		req, err := newReq()
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: status=%d body=%s", resp.StatusCode, string(body))
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("client error: status=%d body=%s", resp.StatusCode, string(body)))
		}
		if len(body) == 0 {
			return fmt.Errorf("empty body")
		}
		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("json decode error: %w body=%s", err, string(body)))
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
