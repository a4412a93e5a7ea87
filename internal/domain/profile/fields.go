package profile

import "hrapp/internal/domain/access"

// Project strips the detailed fields unless viewer may see them for this profile.
func Project(viewer access.Principal, p Profile) Profile {
	if !viewer.Can(access.ActionViewProfileDetailed, p.UserID) {
		p.Detail = nil
	}
	return p
}

func BasicOnly(profiles []Profile) []Profile {
	out := make([]Profile, len(profiles))
	for i, p := range profiles {
		out[i] = Profile{Basic: p.Basic}
	}
	return out
}
