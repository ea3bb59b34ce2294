package hopwire

import "testing"

func TestBuilderAssemblesChain(t *testing.T) {
	chain := NewBuilder().
		Socks5("proxy1.local", 1080).
		RemoteDNS().
		Socks4("proxy2.local", 0).
		Http("proxy3.local", 8080).
		Auth([]byte("user"), []byte("pass")).
		Build()

	if len(chain) != 3 {
		t.Fatalf("expected 3 hops, got %d", len(chain))
	}

	if chain[0].Kind != Socks5 || !chain[0].RemoteDNS {
		t.Fatalf("hop 0 = %+v", chain[0])
	}

	if chain[1].Kind != Socks4 || chain[1].PortOrDefault() != 1080 {
		t.Fatalf("hop 1 = %+v", chain[1])
	}

	if chain[2].Kind != Http || string(chain[2].User) != "user" || string(chain[2].Password) != "pass" {
		t.Fatalf("hop 2 = %+v", chain[2])
	}
}

func TestBuilderFromClientInstallsChain(t *testing.T) {
	c := NewClient()

	c.Builder().Socks5("proxy.local", 1080).Build()

	if len(c.chain) != 1 || c.chain[0].Host != "proxy.local" {
		t.Fatalf("client chain = %+v", c.chain)
	}
}

func TestPortOrDefault(t *testing.T) {
	tests := []struct {
		step ProxyStep
		want uint16
	}{
		{ProxyStep{Kind: Socks5}, 1080},
		{ProxyStep{Kind: Socks4}, 1080},
		{ProxyStep{Kind: Http}, 8080},
		{ProxyStep{Kind: Http, Port: 3128}, 3128},
		{ProxyStep{Kind: None}, 0},
	}

	for _, tt := range tests {
		if got := tt.step.PortOrDefault(); got != tt.want {
			t.Fatalf("%+v: got %d, want %d", tt.step, got, tt.want)
		}
	}
}
