package out

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	"ansitzplaner/internal/modules/remote/adapter/out/rpc"
	"ansitzplaner/internal/modules/remote/domain"
	"ansitzplaner/internal/platform/logging"
)

const defaultStartTimeout = 3 * time.Second

// PluginBackend runs a backend driver as a child process and talks to it
// over the go-plugin gRPC channel. One process serves every call until
// Close.
type PluginBackend struct {
	clientBackend
	client *plugin.Client
}

func StartPluginBackend(manifest domain.DriverManifest, logger hclog.Logger) (*PluginBackend, error) {
	if err := manifest.Validate(); err != nil {
		return nil, err
	}
	if err := checksumMatches(manifest.Binary, manifest.SHA256); err != nil {
		return nil, err
	}
	cmd := exec.Command(manifest.Binary)
	cmd.Env = os.Environ()
	for k, v := range manifest.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              cmd,
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           logging.OrNull(logger),
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start driver %s: %w", manifest.Name, err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense driver %s: %w", manifest.Name, err)
	}
	typed, ok := raw.(rpc.RemoteStoreClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("driver %s: rpc client type mismatch", manifest.Name)
	}
	return &PluginBackend{clientBackend: clientBackend{client: typed}, client: client}, nil
}

// Exited reports whether the driver process has stopped.
func (b *PluginBackend) Exited() bool {
	return b.client.Exited()
}

func (b *PluginBackend) Close() error {
	b.client.Kill()
	return nil
}

func checksumMatches(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open driver binary: %w", err)
	}
	defer f.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, f); err != nil {
		return fmt.Errorf("hash driver binary: %w", err)
	}
	if hex.EncodeToString(hash.Sum(nil)) != expected {
		return domain.ErrChecksumMismatch
	}
	return nil
}
