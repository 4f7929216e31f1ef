package http

// SetExchanger swaps the OAuth client and the user info endpoint.
func (h *OAuthHandler) SetExchanger(ex tokenExchanger, userInfoURL string) {
	h.oauth = ex
	h.userInfoURL = userInfoURL
}
