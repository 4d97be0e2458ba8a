package ledger

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	qt "github.com/frankban/quicktest"
	"go.vocdoni.io/dvote/db/metadb"

	"github.com/cipherstake/cipherstake/crypto/elgamal"
	"github.com/cipherstake/cipherstake/oracle"
	"github.com/cipherstake/cipherstake/storage"
	"github.com/cipherstake/cipherstake/types"
	"github.com/cipherstake/cipherstake/util"
)

// stubOracle records submitted batches and never calls back on its own;
// tests drive the callback path explicitly.
type stubOracle struct {
	submitted int
	handles   [][]byte
}

func (o *stubOracle) SubmitBatch(handles [][]byte, _ oracle.Callback) (string, error) {
	o.submitted++
	o.handles = handles
	return fmt.Sprintf("stub-req-%d", o.submitted), nil
}

func newTestLedger(t *testing.T) (*Ledger, *oracle.KeyHolder) {
	t.Helper()
	kh, err := oracle.NewKeyHolder(1 << 20)
	qt.Assert(t, err, qt.IsNil)
	stg := storage.New(metadb.NewTest(t))
	return New(stg, kh, kh.PublicKey()), kh
}

func encryptTest(t *testing.T, l *Ledger, v int64, width uint8) *elgamal.Ciphertext {
	t.Helper()
	ct, err := elgamal.Encrypt(big.NewInt(v), l.pub, width, nil)
	qt.Assert(t, err, qt.IsNil)
	return ct
}

func TestSubmitStake(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	events := make(chan Event, 8)
	sub := l.Subscribe(events)
	defer sub.Unsubscribe()

	owner := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	index, err := l.SubmitStake(owner, encryptTest(t, l, 500, elgamal.Width64))
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, uint64(1))

	ev := <-events
	c.Assert(ev.Type, qt.Equals, EventStakeSubmitted)
	c.Assert(ev.Index, qt.Equals, uint64(1))

	// a 32-bit amount is rejected before any state change
	_, err = l.SubmitStake(owner, encryptTest(t, l, 500, elgamal.Width32))
	c.Assert(err, qt.IsNotNil)
	count, err := l.Count(storage.CounterStake)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, uint64(1))
}

func TestAggregateSumAnyOrder(t *testing.T) {
	c := qt.New(t)

	weights := []int64{13, 512, 1, 99, 7000}
	var want int64
	for _, w := range weights {
		want += w
	}

	// the decrypted aggregate must not depend on delegation order
	for run := 0; run < 3; run++ {
		l, kh := newTestLedger(t)
		delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))

		shuffled := append([]int64{}, weights...)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for _, w := range shuffled {
			delegator := types.HexBytes(util.RandomBytes(types.IdentifierLen))
			_, err := l.SubmitDelegation(delegator, delegatee, encryptTest(t, l, w, elgamal.Width32))
			c.Assert(err, qt.IsNil)
		}

		events := make(chan Event, 8)
		sub := l.Subscribe(events)
		_, _, err := l.RequestValidatorWeight(delegatee)
		c.Assert(err, qt.IsNil)
		kh.Wait()
		sub.Unsubscribe()

		var completed *Event
		for len(events) > 0 {
			ev := <-events
			if ev.Type == EventDecryptionCompleted {
				completed = &ev
				break
			}
		}
		c.Assert(completed, qt.IsNotNil)
		c.Assert(completed.Cleartexts, qt.HasLen, 1)
		c.Assert(completed.Cleartexts[0].Int64(), qt.Equals, want)
	}
}

func TestVoteProposalValidation(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	voter := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	choice := encryptTest(t, l, 1, elgamal.Width32)

	_, err := l.SubmitVote(voter, 0, choice)
	c.Assert(err, qt.Equals, ErrInvalidProposal)

	_, err = l.SubmitVote(voter, 1, choice)
	c.Assert(err, qt.Equals, ErrProposalNotFound)

	id, err := l.CreateProposal(types.HexBytes("proposal"))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(1))

	_, err = l.SubmitVote(voter, 2, choice)
	c.Assert(err, qt.Equals, ErrProposalNotFound)

	index, err := l.SubmitVote(voter, 1, choice)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, uint64(1))

	// failed submissions left the vote counter untouched
	count, err := l.Count(storage.CounterVote)
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, uint64(1))
}

func TestRequestValidatorWeightNoWeight(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	_, _, err := l.RequestValidatorWeight(types.HexBytes("never-delegated"))
	c.Assert(err, qt.Equals, ErrNoWeight)

	_, err = l.AggregateWeight(types.HexBytes("never-delegated"))
	c.Assert(err, qt.Equals, ErrNoWeight)
}

func TestSingleDelegationDecryptsToValue(t *testing.T) {
	c := qt.New(t)
	l, kh := newTestLedger(t)

	delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	delegator := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	_, err := l.SubmitDelegation(delegator, delegatee, encryptTest(t, l, 424242, elgamal.Width32))
	c.Assert(err, qt.IsNil)

	events := make(chan Event, 8)
	sub := l.Subscribe(events)
	defer sub.Unsubscribe()

	requestID, tag, err := l.RequestValidatorWeight(delegatee)
	c.Assert(err, qt.IsNil)
	c.Assert(requestID, qt.Not(qt.Equals), "")
	c.Assert(tag, qt.HasLen, types.PurposeTagLen)
	kh.Wait()

	requested := <-events
	c.Assert(requested.Type, qt.Equals, EventDecryptionRequested)
	c.Assert(requested.RequestID, qt.Equals, requestID)
	c.Assert(requested.PurposeTag, qt.DeepEquals, tag)

	completed := <-events
	c.Assert(completed.Type, qt.Equals, EventDecryptionCompleted)
	c.Assert(completed.RequestID, qt.Equals, requestID)
	c.Assert(completed.PurposeTag, qt.DeepEquals, tag)
	c.Assert(completed.Cleartexts, qt.HasLen, 1)
	c.Assert(completed.Cleartexts[0].Int64(), qt.Equals, int64(424242))
}

func TestUniqueRequestIDs(t *testing.T) {
	c := qt.New(t)
	l, kh := newTestLedger(t)

	delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	_, err := l.SubmitDelegation(delegatee, delegatee, encryptTest(t, l, 1, elgamal.Width32))
	c.Assert(err, qt.IsNil)

	r1, _, err := l.RequestValidatorWeight(delegatee)
	c.Assert(err, qt.IsNil)
	r2, _, err := l.RequestValidatorWeight(delegatee)
	c.Assert(err, qt.IsNil)
	c.Assert(r1, qt.Not(qt.Equals), r2)
	kh.Wait()
}

func TestCallbackUnknownRequest(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	err := l.HandleDecryptionResult("never-issued", nil, nil)
	c.Assert(err, qt.Equals, ErrUnknownRequest)
}

func TestCallbackForgedProof(t *testing.T) {
	c := qt.New(t)

	// a stub oracle lets the test deliver the forged callback itself
	kh, err := oracle.NewKeyHolder(1 << 20)
	c.Assert(err, qt.IsNil)
	stub := &stubOracle{}
	stg := storage.New(metadb.NewTest(t))
	l := New(stg, stub, kh.PublicKey())

	delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	ct, err := elgamal.Encrypt(big.NewInt(5), kh.PublicKey(), elgamal.Width32, nil)
	c.Assert(err, qt.IsNil)
	_, err = l.SubmitDelegation(delegatee, delegatee, ct)
	c.Assert(err, qt.IsNil)

	events := make(chan Event, 8)
	sub := l.Subscribe(events)
	defer sub.Unsubscribe()

	requestID, tag, err := l.RequestValidatorWeight(delegatee)
	c.Assert(err, qt.IsNil)
	<-events // drain the requested event

	// forged proof: wrong cleartext with an empty proof
	err = l.HandleDecryptionResult(requestID,
		[]*big.Int{big.NewInt(999)},
		[]*elgamal.DecryptionProof{{}})
	c.Assert(err, qt.Equals, ErrProofInvalid)
	c.Assert(len(events), qt.Equals, 0)

	// batch size mismatch is also a proof failure
	err = l.HandleDecryptionResult(requestID, []*big.Int{}, nil)
	c.Assert(err, qt.Equals, ErrProofInvalid)

	// the pending request survived untouched: its tag is unchanged
	pending, err := stg.PendingRequest(requestID)
	c.Assert(err, qt.IsNil)
	c.Assert(pending.PurposeTag, qt.DeepEquals, tag)
}

func TestProposalVotesEndToEnd(t *testing.T) {
	c := qt.New(t)
	l, kh := newTestLedger(t)

	id, err := l.CreateProposal(types.HexBytes("tally me"))
	c.Assert(err, qt.IsNil)
	c.Assert(id, qt.Equals, uint64(1))

	choices := []int64{1, 0, 1}
	var voters []types.HexBytes
	for _, choice := range choices {
		voter := types.HexBytes(util.RandomBytes(types.IdentifierLen))
		voters = append(voters, voter)
		_, err := l.SubmitVote(voter, id, encryptTest(t, l, choice, elgamal.Width32))
		c.Assert(err, qt.IsNil)
	}

	events := make(chan Event, 8)
	sub := l.Subscribe(events)
	defer sub.Unsubscribe()

	requestID, tag, err := l.RequestProposalVotes(id)
	c.Assert(err, qt.IsNil)
	kh.Wait()

	<-events // requested
	completed := <-events
	c.Assert(completed.Type, qt.Equals, EventDecryptionCompleted)
	c.Assert(completed.RequestID, qt.Equals, requestID)
	c.Assert(completed.PurposeTag, qt.DeepEquals, tag)

	// cleartexts come back in submission order
	c.Assert(completed.Cleartexts, qt.HasLen, len(choices))
	for i, choice := range choices {
		c.Assert(completed.Cleartexts[i].Int64(), qt.Equals, choice)
	}

	// the vote records remain independently readable and unchanged
	for i := range choices {
		rec, err := l.Vote(uint64(i + 1))
		c.Assert(err, qt.IsNil)
		c.Assert(rec.ProposalID, qt.Equals, id)
		c.Assert(rec.Voter, qt.DeepEquals, voters[i])
	}
}

func TestRequestProposalVotesErrors(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	_, _, err := l.RequestProposalVotes(0)
	c.Assert(err, qt.Equals, ErrInvalidProposal)

	_, _, err = l.RequestProposalVotes(1)
	c.Assert(err, qt.Equals, ErrProposalNotFound)

	id, err := l.CreateProposal(types.HexBytes("empty"))
	c.Assert(err, qt.IsNil)
	_, _, err = l.RequestProposalVotes(id)
	c.Assert(err, qt.Equals, ErrNoVotes)
}

func TestResetWeights(t *testing.T) {
	c := qt.New(t)
	l, _ := newTestLedger(t)

	delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	_, err := l.SubmitDelegation(delegatee, delegatee, encryptTest(t, l, 10, elgamal.Width32))
	c.Assert(err, qt.IsNil)

	_, err = l.AggregateWeight(delegatee)
	c.Assert(err, qt.IsNil)

	// resetting a delegatee with no aggregate never fails
	c.Assert(l.ResetWeights(delegatee, types.HexBytes("nobody")), qt.IsNil)

	_, err = l.AggregateWeight(delegatee)
	c.Assert(err, qt.Equals, ErrNoWeight)

	// a fresh delegation re-initializes the aggregate from zero
	_, err = l.SubmitDelegation(delegatee, delegatee, encryptTest(t, l, 3, elgamal.Width32))
	c.Assert(err, qt.IsNil)
	_, err = l.AggregateWeight(delegatee)
	c.Assert(err, qt.IsNil)
}

func TestReplayedCallbackRejected(t *testing.T) {
	c := qt.New(t)
	l, kh := newTestLedger(t)

	delegatee := types.HexBytes(util.RandomBytes(types.IdentifierLen))
	_, err := l.SubmitDelegation(delegatee, delegatee, encryptTest(t, l, 8, elgamal.Width32))
	c.Assert(err, qt.IsNil)

	events := make(chan Event, 8)
	sub := l.Subscribe(events)
	defer sub.Unsubscribe()

	requestID, _, err := l.RequestValidatorWeight(delegatee)
	c.Assert(err, qt.IsNil)
	kh.Wait()

	<-events // requested
	completed := <-events
	c.Assert(completed.Type, qt.Equals, EventDecryptionCompleted)

	// replaying the finalized request id, even with a once-valid payload,
	// is rejected and raises nothing
	err = l.HandleDecryptionResult(requestID, completed.Cleartexts, nil)
	c.Assert(err, qt.Equals, ErrUnknownRequest)
	c.Assert(len(events), qt.Equals, 0)
}
