package riot

import (
	"fmt"
	"strings"
)

// Cluster is a continental routing group. Account and match endpoints are
// served per cluster; summoner, league and mastery endpoints are served per
// platform.
type Cluster string

const (
	ClusterAmericas Cluster = "americas"
	ClusterEurope   Cluster = "europe"
	ClusterAsia     Cluster = "asia"
)

// One authoritative platform→cluster table. Platforms not listed here are an
// input error, not a silent default.
var platformClusters = map[string]Cluster{
	"na1": ClusterAmericas,
	"br1": ClusterAmericas,
	"la1": ClusterAmericas,
	"la2": ClusterAmericas,
	"oc1": ClusterAmericas,

	"euw1": ClusterEurope,
	"eun1": ClusterEurope,
	"tr1":  ClusterEurope,
	"ru":   ClusterEurope,
	"me1":  ClusterEurope,

	"kr":  ClusterAsia,
	"jp1": ClusterAsia,
	"sg2": ClusterAsia,
	"tw2": ClusterAsia,
	"vn2": ClusterAsia,
}

// ClusterOf resolves the continental cluster owning a platform.
func ClusterOf(platform string) (Cluster, error) {
	cluster, ok := platformClusters[strings.ToLower(platform)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return cluster, nil
}

func clusterHost(cluster Cluster) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", cluster)
}

func platformHost(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", strings.ToLower(platform))
}
