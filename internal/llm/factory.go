package llm

import (
	"fmt"
	"strings"
)

const completionsPath = "/v1/chat/completions"

// EndpointURL returns the chat-completion URL for either a Gaia node id or a full domain.
// A non-empty domain wins over nodeID; a domain with a scheme is used as given.
func EndpointURL(nodeID, domain string) (string, error) {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	nodeID = strings.TrimSpace(nodeID)
	switch {
	case domain != "" && strings.Contains(domain, "://"):
		return domain + completionsPath, nil
	case domain != "":
		return "https://" + domain + completionsPath, nil
	case nodeID != "":
		return fmt.Sprintf("https://%s.gaia.domains%s", nodeID, completionsPath), nil
	default:
		return "", fmt.Errorf("no endpoint configured: set NODE_ID or DOMAIN")
	}
}
