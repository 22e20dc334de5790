package riot

import (
	"errors"
	"testing"
)

func TestClusterOf(t *testing.T) {
	tests := []struct {
		platform string
		want     Cluster
	}{
		{"br1", ClusterAmericas},
		{"na1", ClusterAmericas},
		{"euw1", ClusterEurope},
		{"ru", ClusterEurope},
		{"kr", ClusterAsia},
		{"vn2", ClusterAsia},
		{"BR1", ClusterAmericas}, // case-insensitive
	}
	for _, tt := range tests {
		got, err := ClusterOf(tt.platform)
		if err != nil {
			t.Errorf("ClusterOf(%q) returned error: %v", tt.platform, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ClusterOf(%q) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}

func TestClusterOfUnknownPlatform(t *testing.T) {
	for _, platform := range []string{"", "pbe", "americas", "xx9"} {
		_, err := ClusterOf(platform)
		if !errors.Is(err, ErrUnknownPlatform) {
			t.Errorf("ClusterOf(%q) = %v, want ErrUnknownPlatform", platform, err)
		}
	}
}

func TestHosts(t *testing.T) {
	if got := clusterHost(ClusterAmericas); got != "https://americas.api.riotgames.com" {
		t.Errorf("unexpected cluster host: %s", got)
	}
	if got := platformHost("BR1"); got != "https://br1.api.riotgames.com" {
		t.Errorf("unexpected platform host: %s", got)
	}
}
