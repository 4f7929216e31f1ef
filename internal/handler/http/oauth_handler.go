package http

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mpikenya/mpi-backend/internal/domain/entity"
	"github.com/mpikenya/mpi-backend/internal/handler/http/dto"
	usecasecontract "github.com/mpikenya/mpi-backend/internal/usecase/contract"
)

const (
	oauthStateCookie      = "oauthState"
	googleUserInfoURL     = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleExternalIDScope = "google|"
)

// tokenExchanger is the part of oauth2.Config the callback needs.
type tokenExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	Client(ctx context.Context, t *oauth2.Token) *http.Client
}

// OAuthHandler signs users in with Google and links them to a local account.
type OAuthHandler struct {
	auth        usecasecontract.IAuthUseCase
	oauth       tokenExchanger
	userInfoURL string
	secure      bool
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewOAuthHandler(auth usecasecontract.IAuthUseCase, clientID, clientSecret, redirectURL string) *OAuthHandler {
	return &OAuthHandler{
		auth: auth,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		secure:      strings.HasPrefix(redirectURL, "https://"),
	}
}

func (h *OAuthHandler) HandleGoogleLogin(c *gin.Context) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		ErrorHandler(c, http.StatusInternalServerError, msgInternalServer)
		return
	}
	state := base64.RawURLEncoding.EncodeToString(b)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", h.secure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state))
}

func (h *OAuthHandler) HandleGoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		ErrorHandler(c, http.StatusUnauthorized, "invalid CSRF state token")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)

	code := c.Query("code")
	if code == "" {
		ErrorHandler(c, http.StatusBadRequest, "authorization code not provided")
		return
	}

	ctx := c.Request.Context()
	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		_ = c.Error(fmt.Errorf("exchange authorization code: %w", err))
		ErrorHandler(c, http.StatusUnauthorized, "failed to exchange authorization code")
		return
	}

	info, err := h.fetchUserInfo(ctx, token)
	if err != nil {
		_ = c.Error(err)
		ErrorHandler(c, http.StatusInternalServerError, "failed to get user info")
		return
	}
	if info.ID == "" || !info.VerifiedEmail {
		ErrorHandler(c, http.StatusUnauthorized, "google account email is not verified")
		return
	}

	account, session, err := h.auth.LinkOrCreate(ctx, googleExternalIDScope+info.ID, info.Email,
		entity.FederatedProfile{Name: info.Name, PhotoURL: info.Picture})
	if err != nil {
		RespondError(c, err)
		return
	}
	SuccessHandler(c, http.StatusOK, dto.AuthResponse{Token: session, User: dto.ToUserResponse(*account)})
}

func (h *OAuthHandler) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := h.oauth.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get user info: status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
