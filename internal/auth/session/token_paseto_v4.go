package session

import (
	"strconv"
	"time"

	paseto "aidanwoods.dev/go-paseto"

	"storeadmin/internal/identity"
)

// AccessClaims is the identity envelope carried inside an access token.
//
// Status and the origin fields are point-in-time snapshots from mint time.
// Live revocation state lives in the session store, not here.
type AccessClaims struct {
	AdminID   int64
	Email     string
	Name      string
	Status    string
	SessionID string
	IPAddress string
	UserAgent string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Issuer    string
}

// AccessTokenManager mints and verifies signed access tokens.
type AccessTokenManager interface {
	Issue(acct identity.Account, sessionID, ip, userAgent string, now time.Time) (token string, exp time.Time, err error)
	Verify(token string, now time.Time) (AccessClaims, error)
}

type pasetoV4PublicManager struct {
	issuer    string
	ttl       time.Duration
	clockSkew time.Duration

	secret paseto.V4AsymmetricSecretKey
	public paseto.V4AsymmetricPublicKey
}

// NewPasetoV4PublicManager builds an AccessTokenManager based on PASETO
// v4.public. It uses an Ed25519 keypair derived from the configured hex
// secret and enforces issuer and expiration rules on verify; clock skew is
// tolerated via ValidAt.
func NewPasetoV4PublicManager(cfg Config) (AccessTokenManager, error) {
	secret, err := paseto.NewV4AsymmetricSecretKeyFromHex(cfg.PasetoV4SecretKeyHex)
	if err != nil {
		return nil, ErrConfig
	}

	return &pasetoV4PublicManager{
		issuer:    cfg.Issuer,
		ttl:       cfg.AccessTokenTTL,
		clockSkew: cfg.ClockSkew,
		secret:    secret,
		public:    secret.Public(),
	}, nil
}

func (m *pasetoV4PublicManager) Issue(acct identity.Account, sessionID, ip, userAgent string, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.ttl)

	tok := paseto.NewToken()
	tok.SetIssuer(m.issuer)
	tok.SetIssuedAt(now)
	tok.SetNotBefore(now)
	tok.SetExpiration(exp)

	_ = tok.Set("aid", strconv.FormatInt(acct.ID, 10))
	_ = tok.Set("eml", acct.Email)
	_ = tok.Set("nam", acct.Name)
	_ = tok.Set("sts", string(acct.Status))
	_ = tok.Set("sid", sessionID)
	_ = tok.Set("ip", ip)
	_ = tok.Set("ua", userAgent)

	return tok.V4Sign(m.secret, nil), exp, nil
}

func (m *pasetoV4PublicManager) Verify(token string, now time.Time) (AccessClaims, error) {
	// Validate slightly in the future so "nbf" tolerates minor clock
	// differences; expiration checks get slightly stricter, which is fine.
	validNow := now.Add(m.clockSkew)

	p := paseto.NewParser()
	p.AddRule(paseto.IssuedBy(m.issuer))
	p.AddRule(paseto.NotExpired())
	p.AddRule(paseto.ValidAt(validNow))

	parsed, err := p.ParseV4Public(m.public, token, nil)
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}

	iss, _ := parsed.GetIssuer()
	exp, _ := parsed.GetExpiration()
	iat, _ := parsed.GetIssuedAt()

	rawAID, err := parsed.GetString("aid")
	if err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	adminID, err := strconv.ParseInt(rawAID, 10, 64)
	if err != nil || adminID <= 0 {
		return AccessClaims{}, ErrInvalidToken
	}
	sid, err := parsed.GetString("sid")
	if err != nil || sid == "" {
		return AccessClaims{}, ErrInvalidToken
	}

	email, _ := parsed.GetString("eml")
	name, _ := parsed.GetString("nam")
	status, _ := parsed.GetString("sts")
	ip, _ := parsed.GetString("ip")
	ua, _ := parsed.GetString("ua")

	return AccessClaims{
		AdminID:   adminID,
		Email:     email,
		Name:      name,
		Status:    status,
		SessionID: sid,
		IPAddress: ip,
		UserAgent: ua,
		IssuedAt:  iat,
		ExpiresAt: exp,
		Issuer:    iss,
	}, nil
}
