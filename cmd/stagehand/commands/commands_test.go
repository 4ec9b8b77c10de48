package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stagehand/cmd/stagehand/commands"
	"go.trai.ch/stagehand/internal/adapters/fsbackend"
	"go.trai.ch/stagehand/internal/adapters/stage"
	"go.trai.ch/stagehand/internal/adapters/telemetry"
	"go.trai.ch/stagehand/internal/app"
	"go.trai.ch/stagehand/internal/build"
	"go.trai.ch/stagehand/internal/core/domain"
	"go.trai.ch/stagehand/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*commands.CLI, *mocks.MockConfigLoader, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "intro.txt"), []byte("intro"), 0o600))

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	loader := mocks.NewMockConfigLoader(ctrl)

	out := &bytes.Buffer{}
	a := app.New(loader, log, telemetry.NewNoop(), stage.New(), fsbackend.New(root, log)).WithOutput(out)
	t.Cleanup(func() { _ = a.Close() })

	cli := commands.New(a)
	cli.SetOutput(out)
	return cli, loader, out
}

func testConfig(t *testing.T) domain.Config {
	t.Helper()
	cfg := domain.DefaultConfig()
	cfg.TickInterval = time.Millisecond
	cfg.FadeIn, cfg.FadeOut = 0, 0
	cfg.StateFile = filepath.Join(t.TempDir(), "state.json")
	return cfg
}

func TestRun_Success(t *testing.T) {
	cli, loader, out := setup(t)
	loader.EXPECT().Load("custom.yaml").Return(testConfig(t), nil).Times(1)

	cli.SetArgs([]string{"run", "--config", "custom.yaml", "switch=intro.txt"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "switch_completed")
}

func TestRun_DefaultConfigPath(t *testing.T) {
	cli, loader, _ := setup(t)
	loader.EXPECT().Load("stagehand.yaml").Return(testConfig(t), nil).Times(1)

	cli.SetArgs([]string{"run", "clear"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestRun_NoArgsShowsHelp(t *testing.T) {
	cli, _, out := setup(t)

	cli.SetArgs([]string{"run"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "switch-nocache=KEY")
}

func TestRun_Failure(t *testing.T) {
	cli, loader, _ := setup(t)
	loader.EXPECT().Load(gomock.Any()).Return(testConfig(t), nil).Times(1)

	cli.SetArgs([]string{"run", "switch=missing.txt"})
	err := cli.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRun_InvalidStep(t *testing.T) {
	cli, _, _ := setup(t)

	cli.SetArgs([]string{"run", "warp=intro.txt"})
	assert.ErrorIs(t, cli.Execute(context.Background()), domain.ErrInvalidStep)
}

func TestStatus(t *testing.T) {
	cli, loader, out := setup(t)
	cfg := testConfig(t)
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil).Times(2)

	cli.SetArgs([]string{"run", "switch=intro.txt"})
	require.NoError(t, cli.Execute(context.Background()))
	out.Reset()

	cli.SetArgs([]string{"status", "-q"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "intro.txt")
}

func TestVersion(t *testing.T) {
	cli, _, out := setup(t)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "stagehand version "+build.Version+"\n", out.String())
}
