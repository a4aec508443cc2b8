// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

const (
	ADMIN_RELATION   = "admin"
	TRAINER_RELATION = "trainer"
	MEMBER_RELATION  = "member"
	SELF_RELATION    = "self"
	GYM_RELATION     = "gym"

	CAN_VIEW_PERMISSION   = "can_view"
	CAN_MANAGE_PERMISSION = "can_manage"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func GymTuple(gymId string) string {
	return "gym:" + gymId
}

func MemberTuple(memberId string) string {
	return "member:" + memberId
}
