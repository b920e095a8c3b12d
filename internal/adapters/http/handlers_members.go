package web

import (
	"errors"
	"net/http"
	"strconv"

	memberStore "gymroster/internal/adapters/storage/member"
	"gymroster/internal/application/orchestrators"
	"gymroster/internal/application/projections"
	"gymroster/internal/domain/audit"
	"gymroster/internal/domain/member"
)

// memberJSON is the wire shape of a member.
type memberJSON struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MembershipDate string `json:"membershipDate"`
}

// draftJSON is the request body for create and update. A client may echo the
// id back on update; it is ignored in favour of the path.
type draftJSON struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MembershipDate string `json:"membershipDate"`
}

func toMemberJSON(m member.Member) memberJSON {
	return memberJSON{
		ID:             m.ID,
		Name:           m.Name,
		Email:          m.Email,
		MembershipDate: member.FormatDate(m.MembershipDate),
	}
}

// decodeDraft reads and validates a draft body.
func decodeDraft(r *http.Request) (member.Draft, error) {
	var in draftJSON
	if err := strictDecode(r, &in); err != nil {
		return member.Draft{}, errors.New("invalid JSON body")
	}
	d := member.Draft{Name: in.Name, Email: in.Email}
	if in.MembershipDate == "" {
		return member.Draft{}, member.ErrMissingDate
	}
	date, err := member.ParseDate(in.MembershipDate)
	if err != nil {
		return member.Draft{}, err
	}
	d.MembershipDate = date
	if err := d.Validate(); err != nil {
		return member.Draft{}, err
	}
	return d, nil
}

func memberDeps() orchestrators.MemberDeps {
	return orchestrators.MemberDeps{MemberStore: stores.MemberStore}
}

// writeMemberError maps store and domain errors to responses.
func writeMemberError(w http.ResponseWriter, err error) {
	if errors.Is(err, memberStore.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return
	}
	internalError(w, err)
}

// handleListMembers handles GET /api/members
func handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := orchestrators.ExecuteListMembers(r.Context(), memberDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]memberJSON, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberJSON(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateMember handles POST /api/members
func handleCreateMember(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeDraft(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	created, err := orchestrators.ExecuteCreateMember(r.Context(), draft, memberDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	recordAudit(r, audit.CategoryMember, audit.ActionCreate, created.ID, "created "+created.Name)
	writeJSON(w, http.StatusCreated, toMemberJSON(created))
}

// handleGetMember handles GET /api/members/{id}
func handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := stores.MemberStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeMemberError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberJSON(m))
}

// handleUpdateMember handles PUT /api/members/{id}
func handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeDraft(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	updated, err := orchestrators.ExecuteUpdateMember(r.Context(), r.PathValue("id"), draft, memberDeps())
	if err != nil {
		writeMemberError(w, err)
		return
	}
	recordAudit(r, audit.CategoryMember, audit.ActionUpdate, updated.ID, "updated "+updated.Name)
	writeJSON(w, http.StatusOK, toMemberJSON(updated))
}

// handleDeleteMember handles DELETE /api/members/{id}
func handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := orchestrators.ExecuteDeleteMember(r.Context(), id, memberDeps()); err != nil {
		writeMemberError(w, err)
		return
	}
	recordAudit(r, audit.CategoryMember, audit.ActionDelete, id, "")
	w.WriteHeader(http.StatusNoContent)
}

// handleMemberSummary handles GET /api/members/summary
func handleMemberSummary(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetRosterSummary(r.Context(), projections.GetRosterSummaryQuery{Now: timeNow()}, projections.GetRosterSummaryDeps{
		MemberStore: stores.MemberStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSendReminders handles POST /api/members/reminders
func handleSendReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := orchestrators.ExecuteSendRenewalReminders(r.Context(), orchestrators.SendRenewalRemindersInput{Now: timeNow()}, orchestrators.SendRenewalRemindersDeps{
		MemberStore: stores.MemberStore,
		Sender:      emailSender,
		From:        emailFromAddress,
		ReplyTo:     emailReplyTo,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	recordAudit(r, audit.CategoryMember, audit.ActionReminders, "", strconv.Itoa(sent)+" reminder(s) sent")
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
