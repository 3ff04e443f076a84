package main

import (
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"

	"homework_status_bot/internal/app"
	domainTelegram "homework_status_bot/internal/domain/telegram"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
)

type fakeMessenger struct {
	chatIDs []int64
	texts   []string
}

func (m *fakeMessenger) SendMessage(chatID int64, text string, _ *telebot.SendOptions) error {
	m.chatIDs = append(m.chatIDs, chatID)
	m.texts = append(m.texts, text)
	return nil
}

type fakeFetcher struct {
	checkpoints []int64
}

func (f *fakeFetcher) Fetch(_ context.Context, checkpoint int64) (any, error) {
	f.checkpoints = append(f.checkpoints, checkpoint)
	return map[string]any{
		"homeworks": []any{map[string]any{"homework_name": "hw1", "status": "approved"}},
	}, nil
}

type recordingClients struct {
	messengerBuilds int
	fetcherBuilds   int
	messenger       *fakeMessenger
	fetcher         *fakeFetcher
	messengerErr    error
}

func (r *recordingClients) clients() clients {
	return clients{
		messenger: func(*config.AppConfig) (domainTelegram.Client, error) {
			r.messengerBuilds++
			if r.messengerErr != nil {
				return nil, r.messengerErr
			}
			return r.messenger, nil
		},
		fetcher: func(*config.AppConfig, *logrus.Entry) app.StatusFetcher {
			r.fetcherBuilds++
			return r.fetcher
		},
	}
}

func newRecordingClients() *recordingClients {
	return &recordingClients{messenger: &fakeMessenger{}, fetcher: &fakeFetcher{}}
}

func captureLogs(t *testing.T) *test.Hook {
	t.Helper()
	out := logger.Log.Out
	logger.Log.SetOutput(io.Discard)
	hook := test.NewLocal(logger.Log)
	t.Cleanup(func() {
		hook.Reset()
		logger.Log.ReplaceHooks(make(logrus.LevelHooks))
		logger.Log.SetOutput(out)
	})
	return hook
}

func loadConfig(t *testing.T, unset ...string) *config.AppConfig {
	t.Helper()
	t.Setenv(config.EnvPracticumToken, "y0_practicum")
	t.Setenv(config.EnvTelegramToken, "123:telegram")
	t.Setenv(config.EnvTelegramChatID, "42")
	for _, key := range unset {
		t.Setenv(key, "")
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func stopped() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	quit <- syscall.SIGTERM
	return quit
}

func TestRun_MissingConfigExitsBeforeBuildingClients(t *testing.T) {
	for _, key := range []string{config.EnvPracticumToken, config.EnvTelegramToken, config.EnvTelegramChatID} {
		t.Run(key, func(t *testing.T) {
			hook := captureLogs(t)
			cfg := loadConfig(t, key)
			rec := newRecordingClients()

			code := run(cfg, rec.clients(), stopped())

			require.Equal(t, 1, code)
			require.Zero(t, rec.messengerBuilds)
			require.Zero(t, rec.fetcherBuilds)
			require.Empty(t, rec.fetcher.checkpoints)
			require.Empty(t, rec.messenger.texts)

			var fatal []*logrus.Entry
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.FatalLevel {
					fatal = append(fatal, e)
				}
			}
			require.Len(t, fatal, 1)
			require.Equal(t, key, fatal[0].Data["variable"])
		})
	}
}

func TestRun_PollsUntilSignal(t *testing.T) {
	captureLogs(t)
	t.Setenv("RETRY_INTERVAL", "1h")
	cfg := loadConfig(t)
	rec := newRecordingClients()
	before := time.Now().Unix()

	code := run(cfg, rec.clients(), stopped())

	require.Equal(t, 0, code)
	require.Equal(t, 1, rec.messengerBuilds)
	require.Equal(t, 1, rec.fetcherBuilds)
	require.Len(t, rec.fetcher.checkpoints, 1)
	require.GreaterOrEqual(t, rec.fetcher.checkpoints[0], before)
	require.Equal(t, []int64{42}, rec.messenger.chatIDs)
	require.Len(t, rec.messenger.texts, 1)
	require.Contains(t, rec.messenger.texts[0], `"hw1"`)
}

func TestRun_MessengerBuildFailure(t *testing.T) {
	captureLogs(t)
	cfg := loadConfig(t)
	rec := newRecordingClients()
	rec.messengerErr = errors.New("invalid settings")

	code := run(cfg, rec.clients(), stopped())

	require.Equal(t, 1, code)
	require.Zero(t, rec.fetcherBuilds)
}
