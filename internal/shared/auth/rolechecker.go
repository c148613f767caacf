package auth

// AdminList is the configured set of administrator user ids. An empty list
// grants admin to nobody.
type AdminList map[uint]struct{}

func NewAdminList(ids []uint) AdminList {
	l := make(AdminList, len(ids))
	for _, id := range ids {
		if id != 0 {
			l[id] = struct{}{}
		}
	}
	return l
}

func (l AdminList) IsAdmin(userID uint) bool {
	if userID == 0 {
		return false
	}
	_, ok := l[userID]
	return ok
}
