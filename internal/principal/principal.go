// Package principal models the authenticated identity attached to a request
// and normalises it into the user-facing {username, nickname, email} view.
package principal

// Principal is the identity a request was authenticated as. The concrete
// values are Local, Social and None.
type Principal interface {
	principal()
}

// Local is an account authenticated with username and password.
type Local struct {
	Username string
}

// Social is a federated identity. ProviderID is the provider-scoped unique id
// and doubles as the account username.
type Social struct {
	Provider   string
	ProviderID string
	Attributes map[string]any
}

// None marks an anonymous request.
type None struct{}

func (Local) principal()  {}
func (Social) principal() {}
func (None) principal()   {}

// Nickname extracts the provider-supplied nickname, if any. Kakao nests it
// under kakao_account.profile; other providers send it top-level.
func (s Social) Nickname() string {
	if profile, ok := lookupMap(s.kakaoAccount(), "profile"); ok {
		if v := stringAttr(profile, "nickname"); v != "" {
			return v
		}
	}
	return stringAttr(s.Attributes, "nickname")
}

// Email extracts the provider-supplied email, if any.
func (s Social) Email() string {
	if v := stringAttr(s.kakaoAccount(), "email"); v != "" {
		return v
	}
	return stringAttr(s.Attributes, "email")
}

func (s Social) kakaoAccount() map[string]any {
	acc, _ := lookupMap(s.Attributes, "kakao_account")
	return acc
}

func lookupMap(m map[string]any, key string) (map[string]any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m[key].(map[string]any)
	return v, ok
}

func stringAttr(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
