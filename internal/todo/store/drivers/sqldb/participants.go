package sqldb

import (
	"context"

	"github.com/aussiebroadwan/todolist/internal/todo/domain"
)

type participantsRepo struct{ q *Queries }

const participantColumns = `p.id, p.board_id, p.user_id, u.username, p.role, p.created_at, p.updated_at`

func (r *participantsRepo) CreateParticipant(ctx context.Context, p domain.Participant) error {
	_, err := r.q.exec(ctx,
		`INSERT INTO participants (id, board_id, user_id, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.BoardID, p.UserID, string(p.Role), p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return r.q.mapInsert(err)
}

func (r *participantsRepo) GetParticipant(ctx context.Context, boardID, userID string) (domain.Participant, error) {
	row := r.q.queryRow(ctx,
		`SELECT `+participantColumns+` FROM participants p JOIN users u ON u.id = p.user_id
		 WHERE p.board_id = ? AND p.user_id = ?`,
		boardID, userID,
	)
	return scanParticipant(row)
}

func (r *participantsRepo) ListParticipants(ctx context.Context, boardID string) ([]domain.Participant, error) {
	rows, err := r.q.query(ctx,
		`SELECT `+participantColumns+` FROM participants p JOIN users u ON u.id = p.user_id
		 WHERE p.board_id = ?
		 ORDER BY CASE p.role WHEN 'owner' THEN 0 ELSE 1 END, p.created_at, p.id`,
		boardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *participantsRepo) DeleteNonOwners(ctx context.Context, boardID string) error {
	_, err := r.q.exec(ctx,
		`DELETE FROM participants WHERE board_id = ? AND role <> ?`,
		boardID, string(domain.RoleOwner),
	)
	return err
}

func scanParticipant(row rowScanner) (domain.Participant, error) {
	var (
		p    domain.Participant
		role string
	)
	err := row.Scan(&p.ID, &p.BoardID, &p.UserID, &p.Username, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Participant{}, mapNotFound(err)
	}
	p.Role = domain.Role(role)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}
