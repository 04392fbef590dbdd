// Package access decides whether an identity may perform an operation on a
// file or folder. It is a pure function of its inputs: no storage access, no
// process-wide state, safe for concurrent use.
//
// Visibility and ownership are independent axes: visibility controls read
// exposure, ownership controls write exposure. A folder can be publicly
// readable yet writer-restricted (a drop-box anyone can see but only its
// creator can add to).
package access

import "marblefiles/internal/model"

// Operation is the kind of access being requested.
type Operation string

const (
	OperationRead  Operation = "read"
	OperationWrite Operation = "write"
)

// Reason is a machine-readable tag describing why a request was denied.
// It never carries details about the actual owner.
type Reason string

const (
	// ReasonNotFound is used for tenant mismatches: existence is never
	// revealed across tenants, so the denial reads as absence.
	ReasonNotFound Reason = "not_found"
	// ReasonOwner denies writes to a folder controlled by someone else.
	ReasonOwner Reason = "forbidden: owner"
	// ReasonAccess denies reads of a private file the caller does not own.
	ReasonAccess Reason = "forbidden: access"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Decide evaluates whether identity may perform op.
//
// For writes the target is the destination folder; file may be nil because the
// record does not exist yet. For reads the target is the file; folder may be
// nil (the parent may have been deleted since upload) and is never consulted,
// since a file's own visibility and owner are authoritative for reads.
func Decide(identity model.Identity, op Operation, file *model.File, folder *model.Folder) Decision {
	if file != nil && file.Tenant != identity.Tenant {
		return deny(ReasonNotFound)
	}
	if folder != nil && folder.Tenant != identity.Tenant {
		return deny(ReasonNotFound)
	}

	switch op {
	case OperationWrite:
		return decideWrite(identity, folder)
	case OperationRead:
		return decideRead(identity, file)
	}
	return deny(ReasonAccess)
}

// decideWrite gates writes by folder ownership. A folder with no owner is a
// tenant-root/shared folder and accepts writes from any identity in the
// tenant, regardless of its visibility.
func decideWrite(identity model.Identity, folder *model.Folder) Decision {
	if folder == nil {
		return deny(ReasonNotFound)
	}
	if folder.Owner == nil {
		return allow()
	}
	if *folder.Owner != identity.ID {
		return deny(ReasonOwner)
	}
	return allow()
}

// decideRead gates reads by file visibility. Public files are readable
// tenant-wide with no owner check.
func decideRead(identity model.Identity, file *model.File) Decision {
	if file == nil {
		return deny(ReasonNotFound)
	}
	if file.Visibility == model.VisibilityPrivate && file.Owner != identity.ID {
		return deny(ReasonAccess)
	}
	return allow()
}
