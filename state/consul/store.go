package consul

import (
	"context"
	"path"

	"github.com/hashicorp/consul/api"
)

// ConsulStore persists workbench state in Consul KV, useful when the
// workbench runs next to an existing Consul deployment and state
// should be visible across hosts.
//
// Consul KV caps values at 512KB, which is far above the size of the
// binding table this store carries.
type ConsulStore struct {
	kv     *api.KV
	config *ConsulStoreConfig
}

// ConsulStoreConfig contains configuration options for the Consul store.
type ConsulStoreConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Prefix for all keys in Consul KV (default: "docbrowse/")
	Prefix string
}

func NewConsulStore(config *ConsulStoreConfig) (*ConsulStore, error) {
	if config == nil {
		config = &ConsulStoreConfig{}
	}

	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}
	if config.Prefix == "" {
		config.Prefix = "docbrowse/"
	}

	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	clientConfig.Token = config.Token
	clientConfig.Datacenter = config.Datacenter

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, err
	}

	return &ConsulStore{
		kv:     client.KV(),
		config: config,
	}, nil
}

func (cs *ConsulStore) buildKey(key string) string {
	return path.Join(cs.config.Prefix, key)
}

func (cs *ConsulStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	opts := (&api.QueryOptions{}).WithContext(ctx)

	pair, _, err := cs.kv.Get(cs.buildKey(key), opts)
	if err != nil {
		return nil, false, err
	}
	if pair == nil {
		return nil, false, nil
	}

	return pair.Value, true, nil
}

func (cs *ConsulStore) Put(ctx context.Context, key string, value []byte) error {
	opts := (&api.WriteOptions{}).WithContext(ctx)

	pair := &api.KVPair{
		Key:   cs.buildKey(key),
		Value: value,
	}

	_, err := cs.kv.Put(pair, opts)
	return err
}

func (cs *ConsulStore) Close(ctx context.Context) error {
	// The consul client holds no connections that need releasing.
	return nil
}
